package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// SaveConfirmationProgressCommandHandler writes confirmed quantities while
// the task awaits confirmation. Only checkers and administrators may write
// (FORBIDDEN_ROLE); the first checker to write is designated (WRONG_CHECKER
// for other checkers afterwards).
type SaveConfirmationProgressCommandHandler struct {
	uowFactory LockUoWFactory
	roles      actor.Policy
	clock      clock.Clock
}

func NewSaveConfirmationProgressCommandHandler(
	uowFactory LockUoWFactory,
	roles actor.Policy,
	clk clock.Clock,
) SaveConfirmationProgressCommandHandler {
	return SaveConfirmationProgressCommandHandler{uowFactory: uowFactory, roles: roles, clock: clk}
}

func (h SaveConfirmationProgressCommandHandler) Handle(ctx context.Context, command SaveConfirmationProgressCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	caller := command.Actor()
	if !h.roles.CanConfirm(caller.Role()) {
		return errs.NewForbiddenError(errs.CodeForbiddenRole, fmt.Sprintf("role %s cannot check tasks", caller.Role()))
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

	err = tk.SaveChecking(task.CheckingInput{
		CheckerID: caller.UserID(),
		AsAdmin:   caller.IsAdmin(),
		Lines:     command.Lines(),
		Now:       h.clock.Now(),
	})
	if err != nil {
		return err
	}

	if err = taskRepo.Update(ctx, tk); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
