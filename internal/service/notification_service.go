package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/platform/logger"
	"github.com/kavitasoren02/TaskManager/internal/store"
)

// NotificationService manages notification records: creation on behalf
// of the task service and the read-state transitions owned by the
// recipient. It performs no transport delivery itself; delivery happens
// through the events returned by the task service.
type NotificationService struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications store.NotificationStore,
	logger *slog.Logger,
) *NotificationService {
	if notifications == nil {
		panic("notifications cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &NotificationService{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_service")),
	}
}

// CreateNotification persists a new unread notification for the given
// user. Pure persistence; no side effects beyond the write.
func (s *NotificationService) CreateNotification(
	ctx context.Context,
	userID uuid.UUID,
	message string,
	notificationType domain.NotificationType,
	taskID uuid.UUID,
) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	notification, err := domain.NewNotification(userID, message, notificationType, taskID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	return notification, nil
}

// GetUserNotifications retrieves the user's notifications, newest-first,
// capped at the 50 most recent, with the task reference expanded.
func (s *NotificationService) GetUserNotifications(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	return s.notifications.ListByUser(ctx, userID)
}

// MarkAsRead marks a single notification as read, but only when it is
// owned by userID. Returns store.ErrNotificationNotFound both when the
// notification does not exist and when it belongs to someone else.
func (s *NotificationService) MarkAsRead(
	ctx context.Context,
	notificationID, userID uuid.UUID,
) (*domain.Notification, error) {
	return s.notifications.MarkRead(ctx, notificationID, userID)
}

// MarkAllAsRead marks every unread notification owned by userID as read.
// Idempotent: a second call is a no-op, not an error.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.notifications.MarkAllRead(ctx, userID)
}

// GetUnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.notifications.CountUnread(ctx, userID)
}
