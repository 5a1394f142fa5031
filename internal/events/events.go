// Package events defines the realtime effects produced by service operations.
//
// Services never talk to the transport directly. A mutating operation returns
// the list of events it produced alongside its result, and the adapter that
// invoked it (HTTP handler or realtime command loop) hands them to a Sink.
// This keeps the core independent of the websocket layer and lets tests
// observe effects without a live connection.
package events

import (
	"context"

	"github.com/google/uuid"
	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// Event names as they appear on the wire.
const (
	TaskCreated     = "task:created"
	TaskUpdated     = "task:updated"
	TaskDeleted     = "task:deleted"
	NotificationNew = "notification:new"
)

// Scope determines which connections receive an event.
type Scope int

const (
	// ScopeAll delivers to every connected client. Task events are global
	// because any user may view any task list; clients filter locally.
	ScopeAll Scope = iota

	// ScopeUser delivers only to the target user's connections.
	ScopeUser
)

// Event is a single realtime effect to be emitted at the boundary.
// UserID is only meaningful when Scope is ScopeUser.
type Event struct {
	Name    string
	Scope   Scope
	UserID  uuid.UUID
	Payload any
}

// Sink receives events produced by service operations and delivers them.
// The websocket hub implements Sink; tests use a recording implementation.
type Sink interface {
	Dispatch(ctx context.Context, events []Event)
}

// NewTaskCreated builds the global broadcast for a newly created task.
func NewTaskCreated(task *domain.Task) Event {
	return Event{Name: TaskCreated, Scope: ScopeAll, Payload: task}
}

// NewTaskUpdated builds the global broadcast for an updated task.
func NewTaskUpdated(task *domain.Task) Event {
	return Event{Name: TaskUpdated, Scope: ScopeAll, Payload: task}
}

// NewTaskDeleted builds the global broadcast for a deleted task.
// The payload is the task id, not the task.
func NewTaskDeleted(taskID uuid.UUID) Event {
	return Event{Name: TaskDeleted, Scope: ScopeAll, Payload: taskID}
}

// NewNotification builds the user-scoped delivery of a notification.
func NewNotification(notification *domain.Notification) Event {
	return Event{
		Name:    NotificationNew,
		Scope:   ScopeUser,
		UserID:  notification.UserID,
		Payload: notification,
	}
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, events []Event)

// Dispatch implements Sink.
func (f SinkFunc) Dispatch(ctx context.Context, events []Event) {
	f(ctx, events)
}

// NopSink discards all events. Useful when no realtime layer is attached.
var NopSink Sink = SinkFunc(func(context.Context, []Event) {})
