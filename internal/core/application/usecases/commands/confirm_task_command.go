package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrConfirmTaskCommandIsNotConstructed = errors.New(
	"ConfirmTaskCommand must be created via NewConfirmTaskCommand constructor",
)

// ConfirmTaskCommand finishes checking of a task.
//
// Example:
//
//	cmd, err := NewConfirmTaskCommand(taskID, checker, lines, &dictatorID, nil)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	if result.ShipmentStatus == lifecycle.Processed {
//	    // the whole order is done
//	}
type ConfirmTaskCommand struct {
	taskID     kernel.UUID
	actor      actor.Actor
	lines      []task.LineUpdate
	dictatorID *kernel.UUID
	places     *int
	guard      guard.ConstructorGuard
}

func NewConfirmTaskCommand(
	taskID kernel.UUID,
	caller actor.Actor,
	lines []task.LineUpdate,
	dictatorID *kernel.UUID,
	places *int,
) (ConfirmTaskCommand, error) {
	problems := []error{taskID.Validate(), caller.Validate()}
	if dictatorID != nil {
		problems = append(problems, dictatorID.Validate())
	}
	if places != nil && *places < 0 {
		problems = append(problems, errs.NewValueIsOutOfRangeError("places", *places, 0, "unbounded"))
	}
	if err := errors.Join(problems...); err != nil {
		return ConfirmTaskCommand{}, err
	}

	return ConfirmTaskCommand{
		taskID:     taskID,
		actor:      caller,
		lines:      copyUpdates(lines),
		dictatorID: dictatorID,
		places:     places,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmTaskCommand) TaskID() kernel.UUID      { return c.taskID }
func (c ConfirmTaskCommand) Actor() actor.Actor       { return c.actor }
func (c ConfirmTaskCommand) Lines() []task.LineUpdate { return c.lines }
func (c ConfirmTaskCommand) DictatorID() *kernel.UUID { return c.dictatorID }
func (c ConfirmTaskCommand) Places() *int             { return c.places }

func (c ConfirmTaskCommand) Validate() error {
	return c.guard.Validate(ErrConfirmTaskCommandIsNotConstructed)
}
