package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/kavitasoren02/TaskManager/internal/api"
	apiMiddleware "github.com/kavitasoren02/TaskManager/internal/api/middleware"
	"github.com/kavitasoren02/TaskManager/internal/config"
	"github.com/kavitasoren02/TaskManager/internal/service"
	"github.com/kavitasoren02/TaskManager/internal/service/auth"
	"github.com/kavitasoren02/TaskManager/internal/testutils"
)

// testEnv wires the HTTP handlers against in-memory stores and a
// capturing event sink, mirroring the production router layout.
type testEnv struct {
	stores *testutils.MemStores
	sink   *testutils.CaptureSink
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	authConfig := config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	}

	jwtService, err := auth.NewJWTService(authConfig)
	require.NoError(t, err)

	stores := testutils.NewMemStores()
	sink := &testutils.CaptureSink{}

	notificationService := service.NewNotificationService(stores.Notifications, nil)
	taskService := service.NewTaskService(stores.Tasks, stores.Users, notificationService, nil)

	bcrypt := auth.NewBcryptVerifier()
	authHandler := api.NewAuthHandler(stores.Users, jwtService, bcrypt, bcrypt, authConfig, nil)
	taskHandler := api.NewTaskHandler(taskService, sink, nil)
	notificationHandler := api.NewNotificationHandler(notificationService, nil)

	authMiddleware := apiMiddleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/profile", authHandler.Profile)
			r.Put("/auth/profile", authHandler.UpdateProfile)
			r.Get("/auth/users", authHandler.ListUsers)

			r.Get("/tasks/overdue", taskHandler.Overdue)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks", taskHandler.List)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			r.Get("/notifications", notificationHandler.List)
			r.Get("/notifications/unread-count", notificationHandler.UnreadCount)
			r.Put("/notifications/read-all", notificationHandler.MarkAllRead)
			r.Put("/notifications/{id}/read", notificationHandler.MarkRead)
		})
	})

	return &testEnv{stores: stores, sink: sink, router: r}
}

// do performs a request against the test router. A non-empty token is
// sent as the session cookie, the way browser clients authenticate.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: api.AuthCookieName, Value: token})
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the API and returns the decoded
// response, including the session token.
func (e *testEnv) register(t *testing.T, name, email, password string) api.AuthResponse {
	t.Helper()

	rec := e.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register failed: %s", rec.Body.String())

	var resp api.AuthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)
	return resp
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}
