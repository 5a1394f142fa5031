package domain

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestNewNotification(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	n, err := NewNotification(userID, "You have been assigned a new task: Write report", NotificationTaskAssigned, taskID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if n.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if n.Read {
		t.Error("Expected new notification to be unread")
	}
	if n.UserID != userID || n.TaskID != taskID {
		t.Error("Expected notification references to match inputs")
	}
	if n.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestNewNotificationValidation(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	taskID := uuid.New()

	tests := []struct {
		name    string
		userID  uuid.UUID
		message string
		nType   NotificationType
		taskID  uuid.UUID
		wantErr error
	}{
		{"nil user", uuid.Nil, "msg", NotificationTaskAssigned, taskID, ErrEmptyNotificationUserID},
		{"empty message", userID, "", NotificationTaskAssigned, taskID, ErrEmptyNotificationMessage},
		{"bad type", userID, "msg", NotificationType("task_archived"), taskID, ErrInvalidNotificationType},
		{"nil task", userID, "msg", NotificationTaskUpdated, uuid.Nil, ErrEmptyNotificationTaskID},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewNotification(tc.userID, tc.message, tc.nType, tc.taskID)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}
