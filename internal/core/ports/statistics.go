package ports

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/task"
)

// ErrReportRejected marks a report the statistics engine will never accept.
// Such reports are abandoned instead of retried.
var ErrReportRejected = errors.New("task report rejected by statistics engine")

// OutboxEntry is a pending task report waiting for delivery to the statistics engine.
type OutboxEntry struct {
	ID         int64
	Report     task.Report
	Attempts   int
	EnqueuedAt time.Time
}

// StatisticsOutbox stores task reports inside the transaction that processed
// the task, so delivery never affects the state transition.
type StatisticsOutbox interface {
	Enqueue(ctx context.Context, report task.Report) error

	// Claim leases up to limit deliverable entries until leaseUntil, oldest
	// first. An entry is deliverable while it is neither dispatched nor
	// abandoned and its lease or retry time is not after now. Rows locked by a
	// concurrent dispatcher are skipped.
	Claim(ctx context.Context, limit int, now, leaseUntil time.Time) ([]OutboxEntry, error)

	MarkDispatched(ctx context.Context, id int64, at time.Time) error

	// MarkFailed increments the attempt counter, records the last error and
	// makes the entry deliverable again at retryAt.
	MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error

	// MarkAbandoned increments the attempt counter, records the last error and
	// takes the entry out of delivery for good.
	MarkAbandoned(ctx context.Context, id int64, reason string, at time.Time) error
}

// StatisticsEngine is the external points and ranking service.
type StatisticsEngine interface {
	SubmitTaskReport(ctx context.Context, report task.Report) error
}
