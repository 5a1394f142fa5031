package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/events"
	"github.com/kavitasoren02/TaskManager/internal/platform/logger"
	"github.com/kavitasoren02/TaskManager/internal/store"
)

// CreateTaskInput carries the validated fields for a new task.
// DueDate is the raw string from the request; the service parses it.
type CreateTaskInput struct {
	Title        string
	Description  string
	DueDate      string
	Priority     domain.TaskPriority
	AssignedToID *uuid.UUID
}

// UpdateTaskInput carries a partial update. Present (non-nil) fields
// overwrite; absent fields leave the stored value untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	DueDate      *string
	Priority     *domain.TaskPriority
	Status       *domain.TaskStatus
	AssignedToID *uuid.UUID
}

// TaskService implements the task lifecycle: creation, filtered listing,
// partial updates, creator-only deletion and the overdue view. Mutating
// operations return the realtime events they produced; the caller is
// responsible for handing them to an events.Sink.
type TaskService struct {
	tasks         store.TaskStore
	users         store.UserStore
	notifications *NotificationService
	logger        *slog.Logger
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	notifications *NotificationService,
	logger *slog.Logger,
) *TaskService {
	if tasks == nil {
		panic("tasks cannot be nil")
	}
	if users == nil {
		panic("users cannot be nil")
	}
	if notifications == nil {
		panic("notifications cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskService{
		tasks:         tasks,
		users:         users,
		notifications: notifications,
		logger:        logger.With(slog.String("component", "task_service")),
	}
}

// CreateTask validates the input, persists a task owned by actorID and,
// when the task is assigned to someone other than the actor, creates a
// task_assigned notification for the assignee. It returns the task with
// creator and assignee expanded plus the events to broadcast.
func (s *TaskService) CreateTask(
	ctx context.Context,
	actorID uuid.UUID,
	in CreateTaskInput,
) (*domain.Task, []events.Event, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dueDate, err := parseDueDate(in.DueDate)
	if err != nil {
		return nil, nil, err
	}

	if err := s.resolveAssignee(ctx, in.AssignedToID); err != nil {
		return nil, nil, err
	}

	task, err := domain.NewTask(actorID, in.Title, in.Description, dueDate, in.Priority, in.AssignedToID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("creator_id", actorID.String()))
		return nil, nil, err
	}

	// Reload so the creator/assignee projections are expanded.
	created, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load created task: %w", err)
	}

	evts := []events.Event{events.NewTaskCreated(created)}

	if in.AssignedToID != nil && *in.AssignedToID != actorID {
		message := fmt.Sprintf("You have been assigned a new task: %s", created.Title)
		notification, err := s.notifications.CreateNotification(
			ctx, *in.AssignedToID, message, domain.NotificationTaskAssigned, created.ID)
		if err != nil {
			// The task is already committed; there is no rollback (see the
			// best-effort sequencing note in the store docs).
			log.Error("failed to create assignment notification",
				slog.String("error", err.Error()),
				slog.String("task_id", created.ID.String()),
				slog.String("assignee_id", in.AssignedToID.String()))
			return nil, nil, err
		}
		evts = append(evts, events.NewNotification(notification))
	}

	log.Info("task created",
		slog.String("task_id", created.ID.String()),
		slog.String("creator_id", actorID.String()))
	return created, evts, nil
}

// GetTasks retrieves tasks matching the filter, newest-created-first,
// with creator and assignee expanded.
func (s *TaskService) GetTasks(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	return s.tasks.List(ctx, filter)
}

// GetTaskByID retrieves a single expanded task.
// Returns store.ErrTaskNotFound if no such task exists.
func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// UpdateTask applies a partial update to an existing task. Any
// authenticated actor may update any task, including reassigning it;
// only deletion is restricted to the creator. When the update hands the
// task to a new assignee who is not the actor, a task_assigned
// notification is created for them. Repeating the current assignee in a
// subsequent update creates no further notification.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	taskID, actorID uuid.UUID,
	in UpdateTaskInput,
) (*domain.Task, []events.Event, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}

	previousAssignedToID := task.AssignedToID

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.DueDate != nil {
		dueDate, err := parseDueDate(*in.DueDate)
		if err != nil {
			return nil, nil, err
		}
		task.DueDate = dueDate
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.AssignedToID != nil {
		if err := s.resolveAssignee(ctx, in.AssignedToID); err != nil {
			return nil, nil, err
		}
		task.AssignedToID = in.AssignedToID
	}
	task.UpdatedAt = time.Now().UTC()

	if err := task.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, nil, err
	}

	updated, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load updated task: %w", err)
	}

	evts := []events.Event{events.NewTaskUpdated(updated)}

	if in.AssignedToID != nil &&
		(previousAssignedToID == nil || *in.AssignedToID != *previousAssignedToID) &&
		*in.AssignedToID != actorID {
		message := fmt.Sprintf("You have been assigned to task: %s", updated.Title)
		notification, err := s.notifications.CreateNotification(
			ctx, *in.AssignedToID, message, domain.NotificationTaskAssigned, updated.ID)
		if err != nil {
			log.Error("failed to create assignment notification",
				slog.String("error", err.Error()),
				slog.String("task_id", updated.ID.String()),
				slog.String("assignee_id", in.AssignedToID.String()))
			return nil, nil, err
		}
		evts = append(evts, events.NewNotification(notification))
	}

	log.Info("task updated",
		slog.String("task_id", taskID.String()),
		slog.String("actor_id", actorID.String()))
	return updated, evts, nil
}

// DeleteTask removes a task. Only the creator may delete; any other
// actor receives ErrNotTaskCreator and the task is left unchanged.
func (s *TaskService) DeleteTask(
	ctx context.Context,
	taskID, actorID uuid.UUID,
) ([]events.Event, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if task.CreatorID != actorID {
		log.Warn("delete attempt by non-creator",
			slog.String("task_id", taskID.String()),
			slog.String("actor_id", actorID.String()),
			slog.String("creator_id", task.CreatorID.String()))
		return nil, ErrNotTaskCreator
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("actor_id", actorID.String()))
	return []events.Event{events.NewTaskDeleted(taskID)}, nil
}

// GetOverdueTasks retrieves tasks whose due date has passed and which
// are not completed, ordered by due date ascending. When actorID is
// non-nil the result only contains tasks that user created or is
// assigned to.
func (s *TaskService) GetOverdueTasks(ctx context.Context, actorID *uuid.UUID) ([]*domain.Task, error) {
	return s.tasks.ListOverdue(ctx, time.Now().UTC(), actorID)
}

// resolveAssignee rejects assignments to users that do not exist.
// A nil assignee is valid (unassigned task).
func (s *TaskService) resolveAssignee(ctx context.Context, assignedToID *uuid.UUID) error {
	if assignedToID == nil {
		return nil
	}

	if _, err := s.users.GetByID(ctx, *assignedToID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("%w: %w", domain.ErrValidation, ErrAssigneeNotFound)
		}
		return err
	}
	return nil
}

// dueDateLayouts are the accepted due date formats: full timestamps and
// bare dates, both common in client payloads.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDueDate parses a due date string, returning a validation error
// the API layer maps to a 400 when the format is unrecognized.
func parseDueDate(raw string) (time.Time, error) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.NewValidationError("due_date", "has invalid format", domain.ErrValidation)
}
