package api_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavitasoren02/TaskManager/internal/api"
	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/events"
)

func validTaskRequest(assignedTo *uuid.UUID) api.CreateTaskRequest {
	return api.CreateTaskRequest{
		Title:        "Write the quarterly report",
		Description:  "Numbers for Q3",
		DueDate:      time.Now().UTC().Add(72 * time.Hour).Format(time.RFC3339),
		Priority:     domain.TaskPriorityMedium,
		AssignedToID: assignedTo,
	}
}

func TestCreateTaskEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	creator := env.register(t, "Asha", "asha@example.com", "password123")
	assignee := env.register(t, "Bodhi", "bodhi@example.com", "password123")

	rec := env.do(t, http.MethodPost, "/api/tasks", creator.Token, validTaskRequest(&assignee.User.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeBody[api.TaskResponse](t, rec)
	assert.Equal(t, "Task created successfully", resp.Message)
	require.NotNil(t, resp.Task)
	assert.Equal(t, domain.TaskStatusToDo, resp.Task.Status)
	require.NotNil(t, resp.Task.AssignedTo)
	assert.Equal(t, assignee.User.ID, resp.Task.AssignedTo.ID)

	// The HTTP mutation broadcasts the same events as a websocket command.
	evts := env.sink.Events()
	require.Len(t, evts, 2)
	assert.Equal(t, events.TaskCreated, evts[0].Name)
	assert.Equal(t, events.ScopeAll, evts[0].Scope)
	assert.Equal(t, events.NotificationNew, evts[1].Name)
	assert.Equal(t, events.ScopeUser, evts[1].Scope)
	assert.Equal(t, assignee.User.ID, evts[1].UserID)

	t.Run("missing title", func(t *testing.T) {
		req := validTaskRequest(nil)
		req.Title = ""
		rec := env.do(t, http.MethodPost, "/api/tasks", creator.Token, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("invalid priority", func(t *testing.T) {
		req := validTaskRequest(nil)
		req.Priority = "Critical"
		rec := env.do(t, http.MethodPost, "/api/tasks", creator.Token, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown assignee", func(t *testing.T) {
		ghost := uuid.New()
		rec := env.do(t, http.MethodPost, "/api/tasks", creator.Token, validTaskRequest(&ghost))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/api/tasks", "", validTaskRequest(nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestListAndGetTasks(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	asha := env.register(t, "Asha", "asha@example.com", "password123")
	bodhi := env.register(t, "Bodhi", "bodhi@example.com", "password123")

	first := env.do(t, http.MethodPost, "/api/tasks", asha.Token, validTaskRequest(&bodhi.User.ID))
	require.Equal(t, http.StatusCreated, first.Code)
	created := decodeBody[api.TaskResponse](t, first)

	req := validTaskRequest(nil)
	req.Title = "Second task"
	req.Priority = domain.TaskPriorityUrgent
	second := env.do(t, http.MethodPost, "/api/tasks", bodhi.Token, req)
	require.Equal(t, http.StatusCreated, second.Code)

	t.Run("list all, newest first", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks", asha.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[api.TaskListResponse](t, rec)
		require.Len(t, list.Tasks, 2)
		assert.Equal(t, "Second task", list.Tasks[0].Title)
	})

	t.Run("filter by assignee", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks?assigned_to_id="+bodhi.User.ID.String(), asha.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[api.TaskListResponse](t, rec)
		require.Len(t, list.Tasks, 1)
		assert.Equal(t, created.Task.ID, list.Tasks[0].ID)
	})

	t.Run("invalid filter value", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks?assigned_to_id=not-a-uuid", asha.Token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("get by id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/"+created.Task.ID.String(), asha.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		resp := decodeBody[api.TaskResponse](t, rec)
		assert.Equal(t, created.Task.ID, resp.Task.ID)
	})

	t.Run("get unknown id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/"+uuid.NewString(), asha.Token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("get malformed id", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/not-a-uuid", asha.Token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateTaskEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	asha := env.register(t, "Asha", "asha@example.com", "password123")
	bodhi := env.register(t, "Bodhi", "bodhi@example.com", "password123")

	rec := env.do(t, http.MethodPost, "/api/tasks", asha.Token, validTaskRequest(nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[api.TaskResponse](t, rec)
	env.sink.Reset()

	status := domain.TaskStatusCompleted
	rec = env.do(t, http.MethodPut, "/api/tasks/"+created.Task.ID.String(), bodhi.Token, api.UpdateTaskRequest{
		Status: &status,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[api.TaskResponse](t, rec)
	assert.Equal(t, domain.TaskStatusCompleted, resp.Task.Status)
	assert.Equal(t, created.Task.Title, resp.Task.Title)

	evts := env.sink.Events()
	require.Len(t, evts, 1)
	assert.Equal(t, events.TaskUpdated, evts[0].Name)
	assert.Equal(t, events.ScopeAll, evts[0].Scope)

	t.Run("invalid status value", func(t *testing.T) {
		bad := domain.TaskStatus("Doneish")
		rec := env.do(t, http.MethodPut, "/api/tasks/"+created.Task.ID.String(), asha.Token, api.UpdateTaskRequest{
			Status: &bad,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown task", func(t *testing.T) {
		rec := env.do(t, http.MethodPut, "/api/tasks/"+uuid.NewString(), asha.Token, api.UpdateTaskRequest{
			Status: &status,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteTaskEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	asha := env.register(t, "Asha", "asha@example.com", "password123")
	bodhi := env.register(t, "Bodhi", "bodhi@example.com", "password123")

	rec := env.do(t, http.MethodPost, "/api/tasks", asha.Token, validTaskRequest(nil))
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[api.TaskResponse](t, rec)
	env.sink.Reset()

	t.Run("non-creator is forbidden", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/tasks/"+created.Task.ID.String(), bodhi.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Empty(t, env.sink.Events())
	})

	t.Run("creator deletes", func(t *testing.T) {
		rec := env.do(t, http.MethodDelete, "/api/tasks/"+created.Task.ID.String(), asha.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Task deleted successfully")

		evts := env.sink.Events()
		require.Len(t, evts, 1)
		assert.Equal(t, events.TaskDeleted, evts[0].Name)

		followup := env.do(t, http.MethodGet, "/api/tasks/"+created.Task.ID.String(), asha.Token, nil)
		assert.Equal(t, http.StatusNotFound, followup.Code)
	})
}

func TestOverdueEndpoint(t *testing.T) {
	t.Parallel()

	env := newTestEnv(t)
	asha := env.register(t, "Asha", "asha@example.com", "password123")
	bodhi := env.register(t, "Bodhi", "bodhi@example.com", "password123")

	overdue := validTaskRequest(&bodhi.User.ID)
	overdue.Title = "Past due"
	overdue.DueDate = time.Now().UTC().Add(-24 * time.Hour).Format(time.RFC3339)
	rec := env.do(t, http.MethodPost, "/api/tasks", asha.Token, overdue)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/tasks", asha.Token, validTaskRequest(nil))
	require.Equal(t, http.StatusCreated, rec.Code)

	t.Run("creator sees their overdue task", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/overdue", asha.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[api.TaskListResponse](t, rec)
		require.Len(t, list.Tasks, 1)
		assert.Equal(t, "Past due", list.Tasks[0].Title)
	})

	t.Run("assignee sees it too", func(t *testing.T) {
		rec := env.do(t, http.MethodGet, "/api/tasks/overdue", bodhi.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[api.TaskListResponse](t, rec)
		require.Len(t, list.Tasks, 1)
		assert.Equal(t, "Past due", list.Tasks[0].Title)
	})

	t.Run("uninvolved caller sees nothing", func(t *testing.T) {
		third := env.register(t, "Chen", "chen@example.com", "password123")
		rec := env.do(t, http.MethodGet, "/api/tasks/overdue", third.Token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		list := decodeBody[api.TaskListResponse](t, rec)
		assert.Empty(t, list.Tasks)
	})
}
