package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/guard"
)

var ErrSaveConfirmationProgressCommandIsNotConstructed = errors.New(
	"SaveConfirmationProgressCommand must be created via NewSaveConfirmationProgressCommand constructor",
)

// SaveConfirmationProgressCommand stores intermediate checking results.
type SaveConfirmationProgressCommand struct {
	taskID kernel.UUID
	actor  actor.Actor
	lines  []task.LineUpdate
	guard  guard.ConstructorGuard
}

func NewSaveConfirmationProgressCommand(
	taskID kernel.UUID,
	caller actor.Actor,
	lines []task.LineUpdate,
) (SaveConfirmationProgressCommand, error) {
	if err := errors.Join(taskID.Validate(), caller.Validate()); err != nil {
		return SaveConfirmationProgressCommand{}, err
	}
	return SaveConfirmationProgressCommand{
		taskID: taskID,
		actor:  caller,
		lines:  copyUpdates(lines),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SaveConfirmationProgressCommand) TaskID() kernel.UUID      { return c.taskID }
func (c SaveConfirmationProgressCommand) Actor() actor.Actor       { return c.actor }
func (c SaveConfirmationProgressCommand) Lines() []task.LineUpdate { return c.lines }

func (c SaveConfirmationProgressCommand) Validate() error {
	return c.guard.Validate(ErrSaveConfirmationProgressCommandIsNotConstructed)
}
