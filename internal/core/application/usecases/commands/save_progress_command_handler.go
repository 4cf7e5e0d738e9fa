package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/clock"
)

// SaveProgressCommandHandler writes picking quantities. Lock ownership and
// collector designation are checked against rows locked in the same
// transaction as the write, so a takeover cannot slip in between.
//
// Errors:
//   - NOT_LOCK_HOLDER: the caller does not hold the lock
//   - TAKEN_BY_OTHER: another collector is designated for the task
//   - WRONG_STATE: picking is already submitted
type SaveProgressCommandHandler struct {
	uowFactory LockUoWFactory
	clock      clock.Clock
}

func NewSaveProgressCommandHandler(uowFactory LockUoWFactory, clk clock.Clock) SaveProgressCommandHandler {
	return SaveProgressCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h SaveProgressCommandHandler) Handle(ctx context.Context, command SaveProgressCommand) error {
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

	taskRepo := uow.TaskRepository()

	tk, err := taskRepo.GetForUpdate(ctx, command.TaskID())
	if err != nil {
		return err
	}

	current, err := uow.LockRepository().Find(ctx, command.TaskID())
	if err != nil {
		return err
	}
	if err = tasklock.RequireHolder(current, command.Actor().UserID()); err != nil {
		return err
	}

	err = tk.SaveProgress(task.ProgressInput{
		CollectorID: command.Actor().UserID(),
		Lines:       command.Lines(),
		Now:         h.clock.Now(),
	})
	if err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, tk); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
