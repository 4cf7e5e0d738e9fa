package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReleaseLockCommandIsNotConstructed = errors.New(
	"ReleaseLockCommand must be created via NewReleaseLockCommand constructor",
)

// ReleaseLockCommand drops the caller's claim on a task.
type ReleaseLockCommand struct {
	taskID kernel.UUID
	actor  actor.Actor
	guard  guard.ConstructorGuard
}

func NewReleaseLockCommand(taskID kernel.UUID, caller actor.Actor) (ReleaseLockCommand, error) {
	if err := errors.Join(taskID.Validate(), caller.Validate()); err != nil {
		return ReleaseLockCommand{}, err
	}
	return ReleaseLockCommand{taskID: taskID, actor: caller, guard: guard.NewConstructorGuard()}, nil
}

func (c ReleaseLockCommand) TaskID() kernel.UUID {
	return c.taskID
}

func (c ReleaseLockCommand) Actor() actor.Actor {
	return c.actor
}

func (c ReleaseLockCommand) Validate() error {
	return c.guard.Validate(ErrReleaseLockCommandIsNotConstructed)
}
