package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// TaskFilter narrows a task listing. Nil fields are unconstrained;
// present fields are combined as a conjunction.
type TaskFilter struct {
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	AssignedToID *uuid.UUID
	CreatorID    *uuid.UUID
}

// TaskStore defines the interface for task data persistence.
// Read operations return tasks with the creator and assignee expanded
// to their UserRef projections.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if a referenced user does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID, expanded.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves tasks matching the filter, newest-created-first,
	// expanded. Returns an empty slice when nothing matches.
	List(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// Update persists the task's mutable fields (title, description,
	// due date, priority, status, assignee, updated_at).
	// The creator reference is never changed.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity if the assignee does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task from the store by its ID. Notifications that
	// reference the task are removed with it.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListOverdue retrieves tasks whose due date is before now and whose
	// status is not Completed, ordered by due date ascending, expanded.
	// If actorID is non-nil the result is restricted to tasks created by
	// or assigned to that user.
	ListOverdue(ctx context.Context, now time.Time, actorID *uuid.UUID) ([]*domain.Task, error)
}
