package domain

import (
	"errors"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo       TaskStatus = "To Do"
	TaskStatusInProgress TaskStatus = "In Progress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// MaxTaskTitleLength is the upper bound on task titles.
const MaxTaskTitleLength = 100

// Common validation errors for Task
var (
	ErrEmptyTaskID          = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle       = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong     = errors.New("task title must be at most 100 characters")
	ErrEmptyTaskDescription = errors.New("task description cannot be empty")
	ErrZeroTaskDueDate      = errors.New("task due date is required")
	ErrInvalidTaskPriority  = errors.New("invalid task priority")
	ErrInvalidTaskStatus    = errors.New("invalid task status")
	ErrEmptyTaskCreator     = errors.New("task creator ID cannot be empty")
)

// Task represents a unit of work created by one user and optionally
// assigned to another. CreatorID is immutable after creation;
// AssignedToID may change any number of times.
//
// Creator and AssignedTo hold the expanded user projections when the
// task was loaded through a store query; they are output-only.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      time.Time    `json:"due_date"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	CreatorID    uuid.UUID    `json:"creator_id"`
	AssignedToID *uuid.UUID   `json:"assigned_to_id,omitempty"`
	Creator      *UserRef     `json:"creator,omitempty"`
	AssignedTo   *UserRef     `json:"assigned_to,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by creatorID. It generates a new UUID,
// defaults the status to "To Do", and sets the creation/update timestamps.
// Returns an error if validation fails.
func NewTask(
	creatorID uuid.UUID,
	title, description string,
	dueDate time.Time,
	priority TaskPriority,
	assignedToID *uuid.UUID,
) (*Task, error) {
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       TaskStatusToDo,
		CreatorID:    creatorID,
		AssignedToID: assignedToID,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	// Counted in characters, matching the database constraint.
	if utf8.RuneCountInString(t.Title) > MaxTaskTitleLength {
		return ErrTaskTitleTooLong
	}

	if t.Description == "" {
		return ErrEmptyTaskDescription
	}

	if t.DueDate.IsZero() {
		return ErrZeroTaskDueDate
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrInvalidTaskPriority
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyTaskCreator
	}

	return nil
}

// IsOverdue reports whether the task's due date has passed and the task
// has not been completed.
func (t *Task) IsOverdue(now time.Time) bool {
	return t.DueDate.Before(now) && t.Status != TaskStatusCompleted
}

// isValidTaskPriority checks if the given priority is a valid TaskPriority.
func isValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
