package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAcquireLockCommandIsNotConstructed = errors.New(
	"AcquireLockCommand must be created via NewAcquireLockCommand constructor",
)

// AcquireLockCommand claims a task for the caller. Holders call it again
// periodically as a heartbeat. A contested lock is only taken over when
// confirmTakeOver is set, after a first call reported CAN_TAKE_OVER.
//
// Example:
//
//	cmd, _ := NewAcquireLockCommand(taskID, worker, false)
//	result, err := handler.Handle(ctx, cmd)
//	if errs.CodeOf(err) == errs.CodeCanTakeOver {
//	    // ask the user, then retry with confirmTakeOver = true
//	}
type AcquireLockCommand struct {
	taskID          kernel.UUID
	actor           actor.Actor
	confirmTakeOver bool
	guard           guard.ConstructorGuard
}

func NewAcquireLockCommand(taskID kernel.UUID, caller actor.Actor, confirmTakeOver bool) (AcquireLockCommand, error) {
	if err := errors.Join(taskID.Validate(), caller.Validate()); err != nil {
		return AcquireLockCommand{}, err
	}

	return AcquireLockCommand{
		taskID:          taskID,
		actor:           caller,
		confirmTakeOver: confirmTakeOver,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

func (c AcquireLockCommand) TaskID() kernel.UUID {
	return c.taskID
}

func (c AcquireLockCommand) Actor() actor.Actor {
	return c.actor
}

func (c AcquireLockCommand) ConfirmTakeOver() bool {
	return c.confirmTakeOver
}

func (c AcquireLockCommand) Validate() error {
	return c.guard.Validate(ErrAcquireLockCommandIsNotConstructed)
}
