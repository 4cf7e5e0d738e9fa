package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
)

// LockRepository persists task locks. At most one lock row exists per task;
// the store enforces it with a unique index.
type LockRepository interface {
	// Find returns the lock of a task, or nil without error when the task is free.
	Find(ctx context.Context, taskID kernel.UUID) (*tasklock.Lock, error)

	// Add inserts a new lock. Losing an insert race to another writer yields a
	// conflict with code LOCKED_BY_OTHER.
	Add(ctx context.Context, lock *tasklock.Lock) error

	// Update stores a refreshed heartbeat.
	Update(ctx context.Context, lock *tasklock.Lock) error

	// Delete removes the lock row. Deleting a missing row is not an error.
	Delete(ctx context.Context, lock *tasklock.Lock) error

	// ListByTasks returns the locks held on any of the given tasks.
	ListByTasks(ctx context.Context, taskIDs []kernel.UUID) ([]*tasklock.Lock, error)
}
