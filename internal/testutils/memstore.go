package testutils

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/domain"
	"github.com/kavitasoren02/TaskManager/internal/store"
)

// MemStores holds in-memory user, task, and notification stores backed
// by the same state, so task reads can expand user references the way
// the SQL stores do with joins.
type MemStores struct {
	mu  sync.RWMutex
	seq int

	users         map[uuid.UUID]domain.User
	tasks         map[uuid.UUID]domain.Task
	notifications map[uuid.UUID]domain.Notification

	taskSeq         map[uuid.UUID]int
	notificationSeq map[uuid.UUID]int

	Users         *MemUserStore
	Tasks         *MemTaskStore
	Notifications *MemNotificationStore
}

// NewMemStores creates an empty set of linked in-memory stores.
func NewMemStores() *MemStores {
	m := &MemStores{
		users:           make(map[uuid.UUID]domain.User),
		tasks:           make(map[uuid.UUID]domain.Task),
		notifications:   make(map[uuid.UUID]domain.Notification),
		taskSeq:         make(map[uuid.UUID]int),
		notificationSeq: make(map[uuid.UUID]int),
	}
	m.Users = &MemUserStore{m: m}
	m.Tasks = &MemTaskStore{m: m}
	m.Notifications = &MemNotificationStore{m: m}
	return m
}

func (m *MemStores) nextSeq() int {
	m.seq++
	return m.seq
}

// MemUserStore implements store.UserStore over a map.
type MemUserStore struct {
	m *MemStores

	// CreateFn, when set, replaces the default Create behavior.
	CreateFn func(ctx context.Context, user *domain.User) error
}

var _ store.UserStore = (*MemUserStore)(nil)

func (s *MemUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, user)
	}
	if err := user.Validate(); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for _, existing := range s.m.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	s.m.users[user.ID] = *user
	return nil
}

func (s *MemUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	for _, u := range s.m.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *MemUserStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*domain.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	u, ok := s.m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	u.Name = name
	u.UpdatedAt = time.Now().UTC()
	s.m.users[id] = u
	return &u, nil
}

func (s *MemUserStore) List(ctx context.Context) ([]*domain.User, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.m.users))
	for _, u := range s.m.users {
		user := u
		users = append(users, &user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Name < users[j].Name })
	return users, nil
}

// MemTaskStore implements store.TaskStore over a map.
type MemTaskStore struct {
	m *MemStores

	// CreateFn and UpdateFn, when set, replace the default behavior.
	CreateFn func(ctx context.Context, task *domain.Task) error
	UpdateFn func(ctx context.Context, task *domain.Task) error
}

var _ store.TaskStore = (*MemTaskStore)(nil)

func (s *MemTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[task.CreatorID]; !ok {
		return store.ErrInvalidEntity
	}
	if task.AssignedToID != nil {
		if _, ok := s.m.users[*task.AssignedToID]; !ok {
			return store.ErrInvalidEntity
		}
	}
	s.m.tasks[task.ID] = *task
	s.m.taskSeq[task.ID] = s.m.nextSeq()
	return nil
}

func (s *MemTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	t, ok := s.m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return s.m.expandTask(t), nil
}

func (s *MemTaskStore) List(ctx context.Context, filter store.TaskFilter) ([]*domain.Task, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range s.m.tasks {
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority != *filter.Priority {
			continue
		}
		if filter.AssignedToID != nil && (t.AssignedToID == nil || *t.AssignedToID != *filter.AssignedToID) {
			continue
		}
		if filter.CreatorID != nil && t.CreatorID != *filter.CreatorID {
			continue
		}
		tasks = append(tasks, s.m.expandTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool {
		return s.m.taskSeq[tasks[i].ID] > s.m.taskSeq[tasks[j].ID]
	})
	return tasks, nil
}

func (s *MemTaskStore) Update(ctx context.Context, task *domain.Task) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, task)
	}
	if err := task.Validate(); err != nil {
		return err
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	existing, ok := s.m.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	if task.AssignedToID != nil {
		if _, ok := s.m.users[*task.AssignedToID]; !ok {
			return store.ErrInvalidEntity
		}
	}

	existing.Title = task.Title
	existing.Description = task.Description
	existing.DueDate = task.DueDate
	existing.Priority = task.Priority
	existing.Status = task.Status
	existing.AssignedToID = task.AssignedToID
	existing.UpdatedAt = task.UpdatedAt
	s.m.tasks[task.ID] = existing
	return nil
}

func (s *MemTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.m.tasks, id)
	delete(s.m.taskSeq, id)
	for nid, n := range s.m.notifications {
		if n.TaskID == id {
			delete(s.m.notifications, nid)
			delete(s.m.notificationSeq, nid)
		}
	}
	return nil
}

func (s *MemTaskStore) ListOverdue(ctx context.Context, now time.Time, actorID *uuid.UUID) ([]*domain.Task, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	tasks := make([]*domain.Task, 0)
	for _, t := range s.m.tasks {
		if !t.DueDate.Before(now) || t.Status == domain.TaskStatusCompleted {
			continue
		}
		if actorID != nil {
			mine := t.CreatorID == *actorID ||
				(t.AssignedToID != nil && *t.AssignedToID == *actorID)
			if !mine {
				continue
			}
		}
		tasks = append(tasks, s.m.expandTask(t))
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].DueDate.Before(tasks[j].DueDate) })
	return tasks, nil
}

// expandTask copies the task and fills Creator and AssignedTo from the
// user table. Callers must hold at least a read lock.
func (m *MemStores) expandTask(t domain.Task) *domain.Task {
	task := t
	if u, ok := m.users[task.CreatorID]; ok {
		task.Creator = u.Ref()
	}
	if task.AssignedToID != nil {
		if u, ok := m.users[*task.AssignedToID]; ok {
			task.AssignedTo = u.Ref()
		}
	}
	return &task
}

// MemNotificationStore implements store.NotificationStore over a map.
type MemNotificationStore struct {
	m *MemStores

	// CreateFn, when set, replaces the default Create behavior.
	CreateFn func(ctx context.Context, notification *domain.Notification) error
}

var _ store.NotificationStore = (*MemNotificationStore)(nil)

func (s *MemNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, notification)
	}
	if err := notification.Validate(); err != nil {
		return err
	}

	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	if _, ok := s.m.users[notification.UserID]; !ok {
		return store.ErrInvalidEntity
	}
	if _, ok := s.m.tasks[notification.TaskID]; !ok {
		return store.ErrInvalidEntity
	}
	s.m.notifications[notification.ID] = *notification
	s.m.notificationSeq[notification.ID] = s.m.nextSeq()
	return nil
}

func (s *MemNotificationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	notifications := make([]*domain.Notification, 0)
	for _, n := range s.m.notifications {
		if n.UserID != userID {
			continue
		}
		notifications = append(notifications, s.m.expandNotification(n))
	}
	sort.Slice(notifications, func(i, j int) bool {
		return s.m.notificationSeq[notifications[i].ID] > s.m.notificationSeq[notifications[j].ID]
	})
	if len(notifications) > store.MaxNotificationsPerList {
		notifications = notifications[:store.MaxNotificationsPerList]
	}
	return notifications, nil
}

func (s *MemNotificationStore) MarkRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	n, ok := s.m.notifications[id]
	if !ok || n.UserID != userID {
		return nil, store.ErrNotificationNotFound
	}
	n.Read = true
	s.m.notifications[id] = n
	return s.m.expandNotification(n), nil
}

func (s *MemNotificationStore) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	for id, n := range s.m.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			s.m.notifications[id] = n
		}
	}
	return nil
}

func (s *MemNotificationStore) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	count := 0
	for _, n := range s.m.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

// expandNotification copies the notification and fills the Task
// reference. Callers must hold at least a read lock.
func (m *MemStores) expandNotification(n domain.Notification) *domain.Notification {
	notification := n
	if t, ok := m.tasks[notification.TaskID]; ok {
		notification.Task = &domain.TaskRef{ID: t.ID, Title: t.Title}
	}
	return &notification
}
