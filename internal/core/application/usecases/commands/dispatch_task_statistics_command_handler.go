package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

const (
	DefaultMaxDispatchAttempts = 10
	DefaultDispatchLease       = 10 * time.Minute
	DefaultDispatchRetryDelay  = time.Minute
)

// DispatchPolicy bounds delivery of outbox entries. Lease must outlast the
// delivery of a whole batch, otherwise another dispatcher may claim the same
// entries again.
type DispatchPolicy struct {
	MaxAttempts int
	Lease       time.Duration
	RetryDelay  time.Duration
}

func DefaultDispatchPolicy() DispatchPolicy {
	return DispatchPolicy{
		MaxAttempts: DefaultMaxDispatchAttempts,
		Lease:       DefaultDispatchLease,
		RetryDelay:  DefaultDispatchRetryDelay,
	}
}

func (p DispatchPolicy) Validate() error {
	if p.MaxAttempts < 1 {
		return errs.NewValueIsOutOfRangeError("maxAttempts", p.MaxAttempts, 1, "unbounded")
	}
	if p.Lease <= 0 {
		return errs.NewValueIsOutOfRangeError("lease", p.Lease, time.Nanosecond, "unbounded")
	}
	if p.RetryDelay < 0 {
		return errs.NewValueIsOutOfRangeError("retryDelay", p.RetryDelay, 0, "unbounded")
	}
	return nil
}

// DispatchResult counts the outcome of one dispatch run.
type DispatchResult struct {
	Dispatched int
	Failed     int
	Abandoned  int
}

type deliveryOutcome struct {
	entry ports.OutboxEntry
	err   error
}

// DispatchTaskStatisticsCommandHandler hands deliverable outbox entries to the
// statistics engine in three steps: claim a batch and commit, deliver it with
// no transaction open, then record the outcomes in a second transaction.
// A failed delivery is retried after RetryDelay. A rejected report, or one
// that has used up MaxAttempts, is abandoned so it cannot block the queue.
type DispatchTaskStatisticsCommandHandler struct {
	uowFactory OutboxUoWFactory
	engine     ports.StatisticsEngine
	policy     DispatchPolicy
	clock      clock.Clock
}

func NewDispatchTaskStatisticsCommandHandler(
	uowFactory OutboxUoWFactory,
	engine ports.StatisticsEngine,
	policy DispatchPolicy,
	clk clock.Clock,
) DispatchTaskStatisticsCommandHandler {
	return DispatchTaskStatisticsCommandHandler{uowFactory: uowFactory, engine: engine, policy: policy, clock: clk}
}

func (h DispatchTaskStatisticsCommandHandler) Handle(
	ctx context.Context,
	command DispatchTaskStatisticsCommand,
) (DispatchResult, error) {
	if err := command.Validate(); err != nil {
		return DispatchResult{}, err
	}
	if err := h.policy.Validate(); err != nil {
		return DispatchResult{}, err
	}

	entries, err := h.claim(ctx, command.BatchSize())
	if err != nil || len(entries) == 0 {
		return DispatchResult{}, err
	}

	outcomes := make([]deliveryOutcome, 0, len(entries))
	for _, entry := range entries {
		outcomes = append(outcomes, deliveryOutcome{
			entry: entry,
			err:   h.engine.SubmitTaskReport(ctx, entry.Report),
		})
	}

	return h.record(ctx, outcomes)
}

func (h DispatchTaskStatisticsCommandHandler) claim(ctx context.Context, limit int) ([]ports.OutboxEntry, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock.Now()
	entries, err := uow.StatisticsOutbox().Claim(ctx, limit, now, now.Add(h.policy.Lease))
	if err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}
	return entries, nil
}

func (h DispatchTaskStatisticsCommandHandler) record(ctx context.Context, outcomes []deliveryOutcome) (DispatchResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DispatchResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	outbox := uow.StatisticsOutbox()
	now := h.clock.Now()

	var result DispatchResult
	for _, o := range outcomes {
		var err error
		switch {
		case o.err == nil:
			err = outbox.MarkDispatched(ctx, o.entry.ID, now)
			result.Dispatched++
		case errors.Is(o.err, ports.ErrReportRejected) || o.entry.Attempts+1 >= h.policy.MaxAttempts:
			err = outbox.MarkAbandoned(ctx, o.entry.ID, o.err.Error(), now)
			result.Abandoned++
		default:
			err = outbox.MarkFailed(ctx, o.entry.ID, o.err.Error(), now.Add(h.policy.RetryDelay))
			result.Failed++
		}
		if err != nil {
			return DispatchResult{}, err
		}
	}

	if err := uow.Commit(ctx); err != nil {
		return DispatchResult{}, err
	}
	return result, nil
}
