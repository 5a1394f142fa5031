package client

import (
	"sync"

	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// NotificationView is the locally cached notification list and unread
// count. Unlike the task cache it is not patched in place: a
// notification:new event marks the view stale and the owner re-fetches
// from the server, which also re-applies the 50-item cap and ordering.
type NotificationView struct {
	mu            sync.RWMutex
	notifications []*domain.Notification
	unreadCount   int
	stale         bool
}

// NewNotificationView creates an empty, stale view.
func NewNotificationView() *NotificationView {
	return &NotificationView{stale: true}
}

// Refresh replaces the view with server truth and clears staleness.
func (v *NotificationView) Refresh(notifications []*domain.Notification, unreadCount int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.notifications = append([]*domain.Notification(nil), notifications...)
	v.unreadCount = unreadCount
	v.stale = false
}

// Invalidate marks the view stale. Called on every notification:new.
func (v *NotificationView) Invalidate() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stale = true
}

// Stale reports whether the view needs a re-fetch.
func (v *NotificationView) Stale() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stale
}

// Snapshot returns a copy of the cached notifications, newest-first.
func (v *NotificationView) Snapshot() []*domain.Notification {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]*domain.Notification, len(v.notifications))
	copy(out, v.notifications)
	return out
}

// UnreadCount returns the cached unread count.
func (v *NotificationView) UnreadCount() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.unreadCount
}
