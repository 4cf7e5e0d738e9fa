package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"
)

// AcquireLockResult describes the lock the caller holds after a successful call.
type AcquireLockResult struct {
	TaskID   kernel.UUID
	Outcome  services.AcquireOutcome
	LockedAt time.Time
	// Previous is the state the lock was in before the call.
	Previous tasklock.State
}

// AcquireLockCommandHandler runs the lock protocol inside one transaction.
//
// The task row is locked first, so concurrent acquisitions of the same task
// are serialized and the second caller sees the first caller's lock. The
// unique index on the lock table backs this up: a lost insert race surfaces
// as LOCKED_BY_OTHER instead of a second lock.
type AcquireLockCommandHandler struct {
	uowFactory LockUoWFactory
	manager    services.LockManager
	clock      clock.Clock
}

func NewAcquireLockCommandHandler(
	uowFactory LockUoWFactory,
	manager services.LockManager,
	clk clock.Clock,
) AcquireLockCommandHandler {
	return AcquireLockCommandHandler{
		uowFactory: uowFactory,
		manager:    manager,
		clock:      clk,
	}
}

func (h AcquireLockCommandHandler) Handle(ctx context.Context, command AcquireLockCommand) (AcquireLockResult, error) {
	if err := command.Validate(); err != nil {
		return AcquireLockResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AcquireLockResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	taskRepo := uow.TaskRepository()
	lockRepo := uow.LockRepository()

	tk, err := taskRepo.GetForUpdate(ctx, command.TaskID())
	if err != nil {
		return AcquireLockResult{}, err
	}

	current, err := lockRepo.Find(ctx, command.TaskID())
	if err != nil {
		return AcquireLockResult{}, err
	}

	decision, err := h.manager.Acquire(services.AcquireRequest{
		Task:            tk,
		Current:         current,
		Actor:           command.Actor(),
		ConfirmTakeOver: command.ConfirmTakeOver(),
		Now:             h.clock.Now(),
	})
	if err != nil {
		return AcquireLockResult{}, err
	}

	if decision.Replaced != nil {
		if err = lockRepo.Delete(ctx, decision.Replaced); err != nil {
			return AcquireLockResult{}, err
		}
	}

	if decision.Outcome == services.OutcomeRefreshed {
		err = lockRepo.Update(ctx, decision.Lock)
	} else {
		err = lockRepo.Add(ctx, decision.Lock)
	}
	if err != nil {
		return AcquireLockResult{}, err
	}

	if decision.CollectorChanged {
		if err = taskRepo.Update(ctx, tk); err != nil {
			return AcquireLockResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return AcquireLockResult{}, err
	}

	return AcquireLockResult{
		TaskID:   tk.ID(),
		Outcome:  decision.Outcome,
		LockedAt: decision.Lock.LockedAt(),
		Previous: decision.Observed,
	}, nil
}
