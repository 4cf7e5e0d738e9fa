package events_test

import (
	"context"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
)

var t0 = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

type recorder struct {
	mu      sync.Mutex
	batches [][]kernel.DomainEvent
	err     error
}

func (r *recorder) Notify(_ context.Context, events ...kernel.DomainEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, events)
	return r.err
}

func (r *recorder) Batches() [][]kernel.DomainEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches
}

func acquired() tasklock.Acquired {
	return tasklock.Acquired{TaskID: kernel.NewUUID(), UserID: kernel.NewUUID(), At: t0}
}
