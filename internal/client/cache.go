package client

import (
	"sync"

	"github.com/google/uuid"

	"github.com/kavitasoren02/TaskManager/internal/domain"
)

// TaskCache is the locally cached task list for the active filter set.
// It is seeded from one HTTP fetch and then patched from broadcast
// events. Patches are idempotent: re-applying an update or delete is a
// no-op, which makes out-of-order arrival across reconnects harmless.
type TaskCache struct {
	mu    sync.RWMutex
	tasks []*domain.Task
}

// NewTaskCache creates an empty cache.
func NewTaskCache() *TaskCache {
	return &TaskCache{}
}

// Replace resets the cache to a server-fetched listing.
func (c *TaskCache) Replace(tasks []*domain.Task) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tasks = append([]*domain.Task(nil), tasks...)
}

// Snapshot returns a copy of the cached list in display order.
func (c *TaskCache) Snapshot() []*domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*domain.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// Len reports the number of cached tasks.
func (c *TaskCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.tasks)
}

// Get returns the cached task with the given id, or nil.
func (c *TaskCache) Get(id uuid.UUID) *domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, t := range c.tasks {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// ApplyCreated prepends the task unless it is already cached. The
// issuing client may see its own create twice, once via the ack and
// once via the broadcast; the second application is a no-op.
func (c *TaskCache) ApplyCreated(task *domain.Task) {
	if task == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, t := range c.tasks {
		if t.ID == task.ID {
			return
		}
	}
	c.tasks = append([]*domain.Task{task}, c.tasks...)
}

// ApplyUpdated replaces the matching cached entry by id. A task not in
// the cache is left absent; the active filter may simply exclude it.
func (c *TaskCache) ApplyUpdated(task *domain.Task) {
	if task == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tasks {
		if t.ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
}

// ApplyDeleted removes the matching cached entry by id.
func (c *TaskCache) ApplyDeleted(id uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, t := range c.tasks {
		if t.ID == id {
			c.tasks = append(c.tasks[:i], c.tasks[i+1:]...)
			return
		}
	}
}
