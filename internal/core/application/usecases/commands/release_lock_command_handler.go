package commands

import (
	"context"

	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"
)

// ReleaseLockCommandHandler deletes the lock when the caller holds it or is
// an administrator. Releasing a free task succeeds without changes.
type ReleaseLockCommandHandler struct {
	uowFactory LockUoWFactory
	manager    services.LockManager
	clock      clock.Clock
}

func NewReleaseLockCommandHandler(
	uowFactory LockUoWFactory,
	manager services.LockManager,
	clk clock.Clock,
) ReleaseLockCommandHandler {
	return ReleaseLockCommandHandler{
		uowFactory: uowFactory,
		manager:    manager,
		clock:      clk,
	}
}

func (h ReleaseLockCommandHandler) Handle(ctx context.Context, command ReleaseLockCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.TaskRepository().GetForUpdate(ctx, command.TaskID()); err != nil {
		return err
	}

	lockRepo := uow.LockRepository()
	current, err := lockRepo.Find(ctx, command.TaskID())
	if err != nil {
		return err
	}

	released, err := h.manager.Release(current, command.Actor(), h.clock.Now())
	if err != nil {
		return err
	}
	if released == nil {
		return nil
	}

	if err = lockRepo.Delete(ctx, released); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
