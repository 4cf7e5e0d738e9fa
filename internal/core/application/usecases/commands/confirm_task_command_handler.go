package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// ConfirmTaskResult reports the statuses after confirmation.
type ConfirmTaskResult struct {
	TaskStatus     lifecycle.Status
	ShipmentStatus lifecycle.Status
}

// ConfirmTaskCommandHandler moves a task from PendingConfirmation to Processed
// and, when it was the last open task, completes the shipment.
//
// The shipment row is locked before the task row and the sibling statuses
// are read under that lock, so two checkers confirming the last two tasks of
// a shipment at the same time cannot both miss the completion. The task
// report is written to the statistics outbox in the same transaction; its
// delivery happens later and never undoes the confirmation.
type ConfirmTaskCommandHandler struct {
	uowFactory UoWFactory
	roles      actor.Policy
	clock      clock.Clock
}

func NewConfirmTaskCommandHandler(uowFactory UoWFactory, roles actor.Policy, clk clock.Clock) ConfirmTaskCommandHandler {
	return ConfirmTaskCommandHandler{uowFactory: uowFactory, roles: roles, clock: clk}
}

func (h ConfirmTaskCommandHandler) Handle(ctx context.Context, command ConfirmTaskCommand) (ConfirmTaskResult, error) {
	if err := command.Validate(); err != nil {
		return ConfirmTaskResult{}, err
	}
	caller := command.Actor()
	if !h.roles.CanConfirm(caller.Role()) {
		return ConfirmTaskResult{}, errs.NewForbiddenError(
			errs.CodeForbiddenRole,
			fmt.Sprintf("role %s cannot confirm tasks", caller.Role()),
		)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ConfirmTaskResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	sh, tk, err := lockShipmentAndTask(ctx, uow, command.TaskID())
	if err != nil {
		return ConfirmTaskResult{}, err
	}

	now := h.clock.Now()
	err = tk.Confirm(task.ConfirmInput{
		CheckerID:  caller.UserID(),
		AsAdmin:    caller.IsAdmin(),
		DictatorID: command.DictatorID(),
		Places:     command.Places(),
		Lines:      command.Lines(),
		Now:        now,
	})
	if err != nil {
		return ConfirmTaskResult{}, err
	}

	if err = sh.ApplyLineResults(tk.LineResults()); err != nil {
		return ConfirmTaskResult{}, err
	}
	if err = rollup(ctx, uow, sh, tk, now); err != nil {
		return ConfirmTaskResult{}, err
	}

	report, err := tk.Report()
	if err != nil {
		return ConfirmTaskResult{}, err
	}
	if err = uow.StatisticsOutbox().Enqueue(ctx, report); err != nil {
		return ConfirmTaskResult{}, err
	}

	lockRepo := uow.LockRepository()
	current, err := lockRepo.Find(ctx, tk.ID())
	if err != nil {
		return ConfirmTaskResult{}, err
	}
	if current != nil {
		current.Release(tasklock.ReasonConfirmed, caller.UserID(), now)
		if err = lockRepo.Delete(ctx, current); err != nil {
			return ConfirmTaskResult{}, err
		}
	}

	if err = uow.TaskRepository().Update(ctx, tk); err != nil {
		return ConfirmTaskResult{}, err
	}
	if err = uow.ShipmentRepository().Update(ctx, sh); err != nil {
		return ConfirmTaskResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return ConfirmTaskResult{}, err
	}

	return ConfirmTaskResult{TaskStatus: tk.Status(), ShipmentStatus: sh.Status()}, nil
}
