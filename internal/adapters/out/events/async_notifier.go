package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// ErrQueueFull is returned when the buffer cannot take another batch.
var ErrQueueFull = errors.New("event queue is full")

// ErrNotifierClosed is returned by Notify after Close.
var ErrNotifierClosed = errors.New("event notifier is closed")

const deliveryTimeout = 5 * time.Second

type batch struct {
	events []kernel.DomainEvent
}

// AsyncNotifier queues batches and delivers them to the next notifier from a
// single goroutine, preserving commit order. Notify never blocks: a full
// queue drops the batch.
type AsyncNotifier struct {
	next   ports.EventNotifier
	queue  chan batch
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewAsyncNotifier(next ports.EventNotifier, buffer int, logger *slog.Logger) *AsyncNotifier {
	if buffer < 1 {
		buffer = 1
	}
	n := &AsyncNotifier{
		next:   next,
		queue:  make(chan batch, buffer),
		logger: logger.With("component", "event_notifier"),
		done:   make(chan struct{}),
	}
	go n.run()
	return n
}

func (n *AsyncNotifier) Notify(_ context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	n.mu.RLock()
	defer n.mu.RUnlock()
	if n.closed {
		return ErrNotifierClosed
	}

	copied := make([]kernel.DomainEvent, len(events))
	copy(copied, events)
	select {
	case n.queue <- batch{events: copied}:
		return nil
	default:
		return ErrQueueFull
	}
}

// Close stops accepting batches and waits until the queue is drained or ctx ends.
func (n *AsyncNotifier) Close(ctx context.Context) error {
	n.mu.Lock()
	if !n.closed {
		n.closed = true
		close(n.queue)
	}
	n.mu.Unlock()

	select {
	case <-n.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (n *AsyncNotifier) run() {
	defer close(n.done)
	for b := range n.queue {
		ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
		if err := n.next.Notify(ctx, b.events...); err != nil {
			n.logger.WarnContext(ctx, "Event delivery failed", "events", len(b.events), "error", err)
		}
		cancel()
	}
}
