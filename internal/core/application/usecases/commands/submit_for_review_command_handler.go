package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/clock"
)

// SubmitForReviewResult reports the statuses after submission.
type SubmitForReviewResult struct {
	TaskStatus     lifecycle.Status
	ShipmentStatus lifecycle.Status
	Metrics        task.Metrics
}

// SubmitForReviewCommandHandler moves a task from New to PendingConfirmation.
//
// In the same transaction it:
//   - mirrors collected quantities onto the shipment lines
//   - deletes the picking lock, whoever holds it
//   - rolls the shipment up to PendingConfirmation once every task is submitted
//
// A designated collector other than the caller fails with WRONG_COLLECTOR.
type SubmitForReviewCommandHandler struct {
	uowFactory UoWFactory
	clock      clock.Clock
}

func NewSubmitForReviewCommandHandler(uowFactory UoWFactory, clk clock.Clock) SubmitForReviewCommandHandler {
	return SubmitForReviewCommandHandler{uowFactory: uowFactory, clock: clk}
}

func (h SubmitForReviewCommandHandler) Handle(
	ctx context.Context,
	command SubmitForReviewCommand,
) (SubmitForReviewResult, error) {
	if err := command.Validate(); err != nil {
		return SubmitForReviewResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitForReviewResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sh, tk, err := lockShipmentAndTask(ctx, uow, command.TaskID())
	if err != nil {
		return SubmitForReviewResult{}, err
	}

	now := h.clock.Now()
	err = tk.SubmitForReview(task.SubmitInput{
		CollectorID: command.Actor().UserID(),
		Lines:       command.Lines(),
		Places:      command.Places(),
		Now:         now,
	})
	if err != nil {
		return SubmitForReviewResult{}, err
	}

	if err = sh.ApplyLineResults(tk.LineResults()); err != nil {
		return SubmitForReviewResult{}, err
	}
	if err = rollup(ctx, uow, sh, tk, now); err != nil {
		return SubmitForReviewResult{}, err
	}

	lockRepo := uow.LockRepository()
	current, err := lockRepo.Find(ctx, tk.ID())
	if err != nil {
		return SubmitForReviewResult{}, err
	}
	if current != nil {
		current.Release(tasklock.ReasonSubmitted, command.Actor().UserID(), now)
		if err = lockRepo.Delete(ctx, current); err != nil {
			return SubmitForReviewResult{}, err
		}
	}

	if err = uow.TaskRepository().Update(ctx, tk); err != nil {
		return SubmitForReviewResult{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, sh); err != nil {
		return SubmitForReviewResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitForReviewResult{}, err
	}

	return SubmitForReviewResult{
		TaskStatus:     tk.Status(),
		ShipmentStatus: sh.Status(),
		Metrics:        tk.Metrics(),
	}, nil
}
