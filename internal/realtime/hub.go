package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/events"
	"github.com/kavitasoren02/TaskManager/internal/platform/logger"
)

// Hub is the explicit connection registry: every joined connection,
// grouped by authenticated user for targeted delivery. It implements
// events.Sink so service-produced events can be handed straight to it.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Client]struct{}
	users   map[uuid.UUID]map[*Client]struct{}
	logger  *slog.Logger
}

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*Client]struct{}),
		users:   make(map[uuid.UUID]map[*Client]struct{}),
		logger:  logger.With(slog.String("component", "realtime_hub")),
	}
}

var _ events.Sink = (*Hub)(nil)

// add joins a client to the registry and its user group.
func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c] = struct{}{}
	group, ok := h.users[c.userID]
	if !ok {
		group = make(map[*Client]struct{})
		h.users[c.userID] = group
	}
	group[c] = struct{}{}

	h.logger.Info("client joined",
		slog.String("user_id", c.userID.String()),
		slog.Int("connections", len(h.clients)))
}

// remove drops a client from the registry and closes its send channel.
// Safe to call more than once per client.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	if group, ok := h.users[c.userID]; ok {
		delete(group, c)
		if len(group) == 0 {
			delete(h.users, c.userID)
		}
	}
	close(c.send)

	h.logger.Info("client left",
		slog.String("user_id", c.userID.String()),
		slog.Int("connections", len(h.clients)))
}

// ConnectionCount reports the number of joined connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// UserConnectionCount reports the number of joined connections for one user.
func (h *Hub) UserConnectionCount(userID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users[userID])
}

// BroadcastAll sends a frame to every joined connection. Clients whose
// send buffer is full are dropped rather than blocking delivery to the
// rest.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		h.sendLocked(c, message)
	}
}

// BroadcastUser sends a frame to every connection in one user's group.
func (h *Hub) BroadcastUser(userID uuid.UUID, message []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.users[userID] {
		h.sendLocked(c, message)
	}
}

func (h *Hub) sendLocked(c *Client, message []byte) {
	select {
	case c.send <- message:
	default:
		h.logger.Warn("dropping slow client",
			slog.String("user_id", c.userID.String()))
		h.removeLocked(c)
	}
}

// Dispatch implements events.Sink. Each event is marshaled once and
// routed by scope: global events to every connection, user events to
// the target user's group. Undeliverable events are logged and skipped;
// delivery is best effort.
func (h *Hub) Dispatch(ctx context.Context, evts []events.Event) {
	log := logger.FromContextOrDefault(ctx, h.logger)

	for _, evt := range evts {
		frame, err := json.Marshal(Push{Event: evt.Name, Data: evt.Payload})
		if err != nil {
			log.Error("failed to marshal event",
				slog.String("event", evt.Name),
				slog.String("error", err.Error()))
			continue
		}

		switch evt.Scope {
		case events.ScopeAll:
			h.BroadcastAll(frame)
		case events.ScopeUser:
			h.BroadcastUser(evt.UserID, frame)
		default:
			log.Error("unknown event scope",
				slog.String("event", evt.Name),
				slog.Int("scope", int(evt.Scope)))
		}
	}
}
