package realtime

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/kavitasoren02/TaskManager/internal/api/middleware"
	"github.com/kavitasoren02/TaskManager/internal/api/shared"
	"github.com/kavitasoren02/TaskManager/internal/config"
	"github.com/kavitasoren02/TaskManager/internal/platform/logger"
	"github.com/kavitasoren02/TaskManager/internal/service"
	"github.com/kavitasoren02/TaskManager/internal/service/auth"
)

// Handler upgrades HTTP requests to websocket connections. The
// credential check happens before the upgrade, with the same token
// sources the HTTP middleware accepts, so an unauthenticated client is
// rejected with a plain 401 and never joins the hub.
type Handler struct {
	hub         *Hub
	jwtService  auth.JWTService
	taskService *service.TaskService
	upgrader    websocket.Upgrader
	logger      *slog.Logger
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(
	hub *Hub,
	jwtService auth.JWTService,
	taskService *service.TaskService,
	serverConfig config.ServerConfig,
	log *slog.Logger,
) *Handler {
	if hub == nil {
		panic("hub cannot be nil")
	}
	if jwtService == nil {
		panic("jwtService cannot be nil")
	}
	if taskService == nil {
		panic("taskService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	allowedOrigin := serverConfig.AllowedOrigin
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
	}
	if allowedOrigin != "" {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == allowedOrigin
		}
	}

	return &Handler{
		hub:         hub,
		jwtService:  jwtService,
		taskService: taskService,
		upgrader:    upgrader,
		logger:      log.With(slog.String("component", "realtime_handler")),
	}
}

// ServeHTTP implements http.Handler for the /ws endpoint.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token, err := middleware.TokenFromRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	claims, err := h.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		h.logger.Debug("websocket handshake rejected", slog.String("error", err.Error()))
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := newClient(h.hub, conn, claims.UserID, h.taskService, h.logger)
	h.hub.add(client)

	// The pumps outlive the HTTP request, whose context is canceled
	// once ServeHTTP returns; give them a fresh context carrying the
	// connection-scoped logger.
	ctx := logger.WithLogger(context.Background(), client.logger)

	go client.writePump()
	go client.readPump(ctx)
}
