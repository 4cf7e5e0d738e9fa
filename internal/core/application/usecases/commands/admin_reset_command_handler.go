package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// AdminResetCommandHandler applies an administrative reset to a shipment.
//
// Modes:
//   - collect: every task back to New, picking and checking results cleared
//   - confirm: processed tasks back to PendingConfirmation, checking results cleared
//   - delete: as collect, then the shipment is soft-deleted
//
// All locks on the shipment's tasks are dropped, and the shipment status is
// derived again from its tasks. Only administrators may reset (FORBIDDEN_ROLE).
type AdminResetCommandHandler struct {
	uowFactory UoWFactory
	roles      actor.Policy
	clock      clock.Clock
}

func NewAdminResetCommandHandler(uowFactory UoWFactory, roles actor.Policy, clk clock.Clock) AdminResetCommandHandler {
	return AdminResetCommandHandler{uowFactory: uowFactory, roles: roles, clock: clk}
}

func (h AdminResetCommandHandler) Handle(ctx context.Context, command AdminResetCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	caller := command.Actor()
	if !h.roles.CanReset(caller.Role()) {
		return errs.NewForbiddenError(errs.CodeForbiddenRole, fmt.Sprintf("role %s cannot reset shipments", caller.Role()))
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	shipmentRepo := uow.ShipmentRepository()
	taskRepo := uow.TaskRepository()
	lockRepo := uow.LockRepository()

	sh, err := shipmentRepo.GetForUpdate(ctx, command.ShipmentID())
	if err != nil {
		return err
	}

	tasks, err := taskRepo.ListByShipmentForUpdate(ctx, sh.ID())
	if err != nil {
		return err
	}

	now := h.clock.Now()
	mode := command.Mode()

	taskIDs := make([]kernel.UUID, 0, len(tasks))
	for _, tk := range tasks {
		taskIDs = append(taskIDs, tk.ID())
	}
	locks, err := lockRepo.ListByTasks(ctx, taskIDs)
	if err != nil {
		return err
	}
	for _, l := range locks {
		l.Release(tasklock.ReasonReset, caller.UserID(), now)
		if err = lockRepo.Delete(ctx, l); err != nil {
			return err
		}
	}

	statuses := make([]lifecycle.Status, 0, len(tasks))
	for _, tk := range tasks {
		if err = tk.Reset(mode, now); err != nil {
			return err
		}
		statuses = append(statuses, tk.Status())
	}

	if err = sh.ResetLines(mode); err != nil {
		return err
	}
	if err = sh.Rollup(statuses, now); err != nil {
		return err
	}
	if mode == lifecycle.ResetDelete {
		if err = sh.MarkDeleted(now); err != nil {
			return err
		}
	}

	for _, tk := range tasks {
		if err = taskRepo.Update(ctx, tk); err != nil {
			return err
		}
	}
	if err = shipmentRepo.Update(ctx, sh); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
