package client_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavitasoren02/TaskManager/internal/api"
	"github.com/kavitasoren02/TaskManager/internal/client"
	"github.com/kavitasoren02/TaskManager/internal/config"
	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/realtime"
	"github.com/kavitasoren02/TaskManager/internal/service"
	"github.com/kavitasoren02/TaskManager/internal/service/auth"
	"github.com/kavitasoren02/TaskManager/internal/testutils"
)

const convergeTimeout = 2 * time.Second

type syncEnv struct {
	stores     *testutils.MemStores
	jwtService auth.JWTService
	server     *httptest.Server
}

func newSyncEnv(t *testing.T) *syncEnv {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:            "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes: 60,
	})
	require.NoError(t, err)

	stores := testutils.NewMemStores()
	notificationService := service.NewNotificationService(stores.Notifications, nil)
	taskService := service.NewTaskService(stores.Tasks, stores.Users, notificationService, nil)

	hub := realtime.NewHub(nil)
	handler := realtime.NewHandler(hub, jwtService, taskService, config.ServerConfig{}, nil)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &syncEnv{stores: stores, jwtService: jwtService, server: server}
}

func (e *syncEnv) dial(t *testing.T, user *domain.User) *client.Client {
	t.Helper()

	token, err := e.jwtService.GenerateToken(context.Background(), user.ID, user.Email)
	require.NoError(t, err)

	wsURL := "ws" + strings.TrimPrefix(e.server.URL, "http")
	c, err := client.Dial(context.Background(), wsURL, token, nil)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func createRequest(title string, assignedTo *uuid.UUID) api.CreateTaskRequest {
	return api.CreateTaskRequest{
		Title:        title,
		Description:  "sync test",
		DueDate:      time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339),
		Priority:     domain.TaskPriorityLow,
		AssignedToID: assignedTo,
	}
}

func TestDialRejectsBadToken(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	wsURL := "ws" + strings.TrimPrefix(env.server.URL, "http")

	_, err := client.Dial(context.Background(), wsURL, "not-a-jwt", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "handshake rejected")
}

func TestCreateTaskConvergesAcrossClients(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	asha := testutils.MustCreateUser(t, env.stores, "Asha", "asha@example.com")
	bodhi := testutils.MustCreateUser(t, env.stores, "Bodhi", "bodhi@example.com")

	ashaClient := env.dial(t, asha)
	bodhiClient := env.dial(t, bodhi)

	ctx, cancel := context.WithTimeout(context.Background(), convergeTimeout)
	defer cancel()

	task, err := ashaClient.CreateTask(ctx, createRequest("Shared task", &bodhi.ID))
	require.NoError(t, err)
	require.NotNil(t, task)
	assert.Equal(t, "Shared task", task.Title)

	// Both caches converge on the broadcast, the issuer included.
	for _, c := range []*client.Client{ashaClient, bodhiClient} {
		c := c
		require.Eventually(t, func() bool {
			return c.Tasks.Get(task.ID) != nil
		}, convergeTimeout, 10*time.Millisecond)
	}

	// Only the assignee's notification view went stale.
	require.Eventually(t, func() bool {
		return bodhiClient.Notifications.Stale()
	}, convergeTimeout, 10*time.Millisecond)

	bodhiClient.Notifications.Refresh(nil, 0)
	assert.False(t, bodhiClient.Notifications.Stale())
}

func TestUpdateAndDeleteTaskPatchCaches(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	asha := testutils.MustCreateUser(t, env.stores, "Asha", "asha@example.com")
	ashaClient := env.dial(t, asha)

	ctx, cancel := context.WithTimeout(context.Background(), convergeTimeout)
	defer cancel()

	task, err := ashaClient.CreateTask(ctx, createRequest("Mutable", nil))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return ashaClient.Tasks.Get(task.ID) != nil
	}, convergeTimeout, 10*time.Millisecond)

	status := domain.TaskStatusInProgress
	updated, err := ashaClient.UpdateTask(ctx, task.ID, api.UpdateTaskRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)

	require.Eventually(t, func() bool {
		cached := ashaClient.Tasks.Get(task.ID)
		return cached != nil && cached.Status == domain.TaskStatusInProgress
	}, convergeTimeout, 10*time.Millisecond)

	require.NoError(t, ashaClient.DeleteTask(ctx, task.ID))

	require.Eventually(t, func() bool {
		return ashaClient.Tasks.Get(task.ID) == nil
	}, convergeTimeout, 10*time.Millisecond)
}

func TestRejectedCommandSurfacesAckError(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	asha := testutils.MustCreateUser(t, env.stores, "Asha", "asha@example.com")
	bodhi := testutils.MustCreateUser(t, env.stores, "Bodhi", "bodhi@example.com")
	task := testutils.MustCreateTask(t, env.stores, asha.ID, "Protected", nil)

	bodhiClient := env.dial(t, bodhi)

	ctx, cancel := context.WithTimeout(context.Background(), convergeTimeout)
	defer cancel()

	err := bodhiClient.DeleteTask(ctx, task.ID)
	require.Error(t, err)

	var cmdErr *client.CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.NotEmpty(t, cmdErr.Message)

	t.Run("invalid payload", func(t *testing.T) {
		_, err := bodhiClient.CreateTask(ctx, createRequest("", nil))
		var cmdErr *client.CommandError
		require.ErrorAs(t, err, &cmdErr)
	})
}

func TestCommandsFailAfterClose(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	asha := testutils.MustCreateUser(t, env.stores, "Asha", "asha@example.com")
	ashaClient := env.dial(t, asha)

	require.NoError(t, ashaClient.Close())

	select {
	case <-ashaClient.Done():
	case <-time.After(convergeTimeout):
		t.Fatal("read loop did not exit after close")
	}

	_, err := ashaClient.CreateTask(context.Background(), createRequest("Too late", nil))
	assert.ErrorIs(t, err, client.ErrClosed)
}

func TestSequentialCommandsFromOneConnection(t *testing.T) {
	t.Parallel()

	env := newSyncEnv(t)
	asha := testutils.MustCreateUser(t, env.stores, "Asha", "asha@example.com")
	ashaClient := env.dial(t, asha)

	ctx, cancel := context.WithTimeout(context.Background(), convergeTimeout)
	defer cancel()

	var ids []uuid.UUID
	for _, title := range []string{"one", "two", "three"} {
		task, err := ashaClient.CreateTask(ctx, createRequest(title, nil))
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}

	require.Eventually(t, func() bool {
		return ashaClient.Tasks.Len() == 3
	}, convergeTimeout, 10*time.Millisecond)

	// Creation pushes arrived in submission order, newest first.
	snapshot := ashaClient.Tasks.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, ids[2], snapshot[0].ID)
	assert.Equal(t, ids[0], snapshot[2].ID)
}
