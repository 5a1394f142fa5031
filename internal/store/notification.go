package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// MaxNotificationsPerList caps how many notifications a single listing returns.
const MaxNotificationsPerList = 50

// NotificationStore defines the interface for notification data persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns ErrInvalidEntity if the referenced user or task does not exist.
	// Returns validation errors from the domain Notification if data is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByUser retrieves the user's notifications, newest-first, capped
	// at MaxNotificationsPerList, with the task reference expanded to its
	// TaskRef projection. Returns an empty slice when the user has none.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// MarkRead sets read=true on the notification, but only if it is owned
	// by userID. The ownership filter is part of the mutation query so a
	// user can never flip another user's notification.
	// Returns ErrNotificationNotFound when no row matches, which covers
	// both "does not exist" and "belongs to someone else".
	MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)

	// MarkAllRead sets read=true on every unread notification owned by
	// userID. It is a no-op, not an error, when none are unread.
	MarkAllRead(ctx context.Context, userID uuid.UUID) error

	// CountUnread returns the number of unread notifications owned by userID.
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
