package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/guard"
)

var ErrSaveProgressCommandIsNotConstructed = errors.New(
	"SaveProgressCommand must be created via NewSaveProgressCommand constructor",
)

// SaveProgressCommand stores intermediate picking quantities.
type SaveProgressCommand struct {
	taskID kernel.UUID
	actor  actor.Actor
	lines  []task.LineUpdate
	guard  guard.ConstructorGuard
}

func NewSaveProgressCommand(taskID kernel.UUID, caller actor.Actor, lines []task.LineUpdate) (SaveProgressCommand, error) {
	if err := errors.Join(taskID.Validate(), caller.Validate()); err != nil {
		return SaveProgressCommand{}, err
	}
	return SaveProgressCommand{
		taskID: taskID,
		actor:  caller,
		lines:  copyUpdates(lines),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SaveProgressCommand) TaskID() kernel.UUID      { return c.taskID }
func (c SaveProgressCommand) Actor() actor.Actor       { return c.actor }
func (c SaveProgressCommand) Lines() []task.LineUpdate { return c.lines }

func (c SaveProgressCommand) Validate() error {
	return c.guard.Validate(ErrSaveProgressCommandIsNotConstructed)
}
