package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/service"
	"github.com/kavitasoren02/TaskManager/internal/store"
	"github.com/kavitasoren02/TaskManager/internal/testutils"
)

func TestCreateNotification(t *testing.T) {
	t.Parallel()

	stores := testutils.NewMemStores()
	user := testutils.MustCreateUser(t, stores, "Asha", "asha@example.com")
	task := testutils.MustCreateTask(t, stores, user.ID, "Review PR", nil)
	svc := service.NewNotificationService(stores.Notifications, nil)
	ctx := context.Background()

	notification, err := svc.CreateNotification(ctx, user.ID, "Review PR is waiting", domain.NotificationTaskUpdated, task.ID)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, notification.ID)
	assert.Equal(t, user.ID, notification.UserID)
	assert.Equal(t, task.ID, notification.TaskID)
	assert.False(t, notification.Read)

	t.Run("empty message is a validation error", func(t *testing.T) {
		_, err := svc.CreateNotification(ctx, user.ID, "", domain.NotificationTaskUpdated, task.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("unknown notification type is a validation error", func(t *testing.T) {
		_, err := svc.CreateNotification(ctx, user.ID, "hello", domain.NotificationType("task_exploded"), task.ID)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestGetUserNotificationsNewestFirst(t *testing.T) {
	t.Parallel()

	stores := testutils.NewMemStores()
	user := testutils.MustCreateUser(t, stores, "Asha", "asha@example.com")
	other := testutils.MustCreateUser(t, stores, "Bodhi", "bodhi@example.com")
	task := testutils.MustCreateTask(t, stores, user.ID, "Write docs", nil)
	svc := service.NewNotificationService(stores.Notifications, nil)
	ctx := context.Background()

	first, err := svc.CreateNotification(ctx, user.ID, "first", domain.NotificationTaskAssigned, task.ID)
	require.NoError(t, err)
	second, err := svc.CreateNotification(ctx, user.ID, "second", domain.NotificationTaskUpdated, task.ID)
	require.NoError(t, err)
	_, err = svc.CreateNotification(ctx, other.ID, "not yours", domain.NotificationTaskAssigned, task.ID)
	require.NoError(t, err)

	notifications, err := svc.GetUserNotifications(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, second.ID, notifications[0].ID)
	assert.Equal(t, first.ID, notifications[1].ID)

	// The task title projection is populated for list rendering.
	require.NotNil(t, notifications[0].Task)
	assert.Equal(t, "Write docs", notifications[0].Task.Title)
}

func TestMarkAsReadOwnership(t *testing.T) {
	t.Parallel()

	stores := testutils.NewMemStores()
	owner := testutils.MustCreateUser(t, stores, "Asha", "asha@example.com")
	intruder := testutils.MustCreateUser(t, stores, "Bodhi", "bodhi@example.com")
	task := testutils.MustCreateTask(t, stores, owner.ID, "Ship it", nil)
	svc := service.NewNotificationService(stores.Notifications, nil)
	ctx := context.Background()

	notification, err := svc.CreateNotification(ctx, owner.ID, "ping", domain.NotificationTaskAssigned, task.ID)
	require.NoError(t, err)

	// Another user marking it read is indistinguishable from not-found.
	_, err = svc.MarkAsRead(ctx, notification.ID, intruder.ID)
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)

	unchanged, err := svc.GetUserNotifications(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, unchanged, 1)
	assert.False(t, unchanged[0].Read)

	marked, err := svc.MarkAsRead(ctx, notification.ID, owner.ID)
	require.NoError(t, err)
	assert.True(t, marked.Read)

	read, err := svc.GetUserNotifications(ctx, owner.ID)
	require.NoError(t, err)
	assert.True(t, read[0].Read)

	_, err = svc.MarkAsRead(ctx, uuid.New(), owner.ID)
	assert.ErrorIs(t, err, store.ErrNotificationNotFound)
}

func TestMarkAllAsReadIdempotent(t *testing.T) {
	t.Parallel()

	stores := testutils.NewMemStores()
	user := testutils.MustCreateUser(t, stores, "Asha", "asha@example.com")
	task := testutils.MustCreateTask(t, stores, user.ID, "Ship it", nil)
	svc := service.NewNotificationService(stores.Notifications, nil)
	ctx := context.Background()

	for _, message := range []string{"one", "two", "three"} {
		_, err := svc.CreateNotification(ctx, user.ID, message, domain.NotificationTaskUpdated, task.ID)
		require.NoError(t, err)
	}

	count, err := svc.GetUnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	require.NoError(t, svc.MarkAllAsRead(ctx, user.ID))

	count, err = svc.GetUnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Repeating is a no-op, not an error.
	require.NoError(t, svc.MarkAllAsRead(ctx, user.ID))

	count, err = svc.GetUnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
