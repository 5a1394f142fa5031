package testutils

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/events"
)

// MustCreateUser inserts a user with a pre-hashed placeholder password
// and fails the test on error.
func MustCreateUser(t *testing.T, stores *MemStores, name, email string) *domain.User {
	t.Helper()

	user := &domain.User{
		ID:             uuid.New(),
		Name:           name,
		Email:          email,
		HashedPassword: "$2a$10$testhashtesthashtesthashtesthashtesthashtesthashtest",
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
	}
	if err := stores.Users.Create(context.Background(), user); err != nil {
		t.Fatalf("create user %q: %v", email, err)
	}
	return user
}

// MustCreateTask inserts a task due tomorrow with medium priority and
// fails the test on error.
func MustCreateTask(t *testing.T, stores *MemStores, creatorID uuid.UUID, title string, assignedTo *uuid.UUID) *domain.Task {
	t.Helper()

	task, err := domain.NewTask(creatorID, title, "test task", time.Now().UTC().Add(24*time.Hour), domain.TaskPriorityMedium, assignedTo)
	if err != nil {
		t.Fatalf("build task %q: %v", title, err)
	}
	if err := stores.Tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("create task %q: %v", title, err)
	}
	return task
}

// CaptureSink records dispatched events for assertions.
type CaptureSink struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.Sink = (*CaptureSink)(nil)

func (s *CaptureSink) Dispatch(ctx context.Context, evs []events.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, evs...)
}

// Events returns a copy of everything dispatched so far.
func (s *CaptureSink) Events() []events.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]events.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Reset discards recorded events.
func (s *CaptureSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
