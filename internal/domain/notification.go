package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// NotificationType classifies why a notification was created.
type NotificationType string

// Possible notification type values
const (
	NotificationTaskAssigned  NotificationType = "task_assigned"
	NotificationTaskUpdated   NotificationType = "task_updated"
	NotificationTaskCompleted NotificationType = "task_completed"
)

// Common validation errors for Notification
var (
	ErrEmptyNotificationID      = errors.New("notification ID cannot be empty")
	ErrEmptyNotificationUserID  = errors.New("notification user ID cannot be empty")
	ErrEmptyNotificationMessage = errors.New("notification message cannot be empty")
	ErrInvalidNotificationType  = errors.New("invalid notification type")
	ErrEmptyNotificationTaskID  = errors.New("notification task ID cannot be empty")
)

// TaskRef is the projection of a Task embedded in expanded notification
// payloads.
type TaskRef struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

// Notification is a message delivered to a single user as a side effect
// of a task assignment event. Message, type and task reference are
// immutable after creation; only the read flag transitions.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	TaskID    uuid.UUID        `json:"task_id"`
	Task      *TaskRef         `json:"task,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewNotification creates a new unread Notification for the given user.
// Returns an error if validation fails.
func NewNotification(
	userID uuid.UUID,
	message string,
	notificationType NotificationType,
	taskID uuid.UUID,
) (*Notification, error) {
	notification := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Message:   message,
		Type:      notificationType,
		TaskID:    taskID,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if err := notification.Validate(); err != nil {
		return nil, err
	}

	return notification, nil
}

// Validate checks if the Notification has valid data.
// Returns an error if any field fails validation.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyNotificationUserID
	}

	if n.Message == "" {
		return ErrEmptyNotificationMessage
	}

	if !isValidNotificationType(n.Type) {
		return ErrInvalidNotificationType
	}

	if n.TaskID == uuid.Nil {
		return ErrEmptyNotificationTaskID
	}

	return nil
}

// isValidNotificationType checks if the given type is a valid NotificationType.
func isValidNotificationType(t NotificationType) bool {
	switch t {
	case NotificationTaskAssigned, NotificationTaskUpdated, NotificationTaskCompleted:
		return true
	default:
		return false
	}
}
