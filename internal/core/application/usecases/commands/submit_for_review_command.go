package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrSubmitForReviewCommandIsNotConstructed = errors.New(
	"SubmitForReviewCommand must be created via NewSubmitForReviewCommand constructor",
)

// SubmitForReviewCommand finishes picking and hands the task to checkers.
// Places is optional; when set it overrides the number of packages.
type SubmitForReviewCommand struct {
	taskID kernel.UUID
	actor  actor.Actor
	lines  []task.LineUpdate
	places *int
	guard  guard.ConstructorGuard
}

func NewSubmitForReviewCommand(
	taskID kernel.UUID,
	caller actor.Actor,
	lines []task.LineUpdate,
	places *int,
) (SubmitForReviewCommand, error) {
	if err := errors.Join(taskID.Validate(), caller.Validate()); err != nil {
		return SubmitForReviewCommand{}, err
	}
	if places != nil && *places < 0 {
		return SubmitForReviewCommand{}, errs.NewValueIsOutOfRangeError("places", *places, 0, "unbounded")
	}

	return SubmitForReviewCommand{
		taskID: taskID,
		actor:  caller,
		lines:  copyUpdates(lines),
		places: places,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitForReviewCommand) TaskID() kernel.UUID      { return c.taskID }
func (c SubmitForReviewCommand) Actor() actor.Actor       { return c.actor }
func (c SubmitForReviewCommand) Lines() []task.LineUpdate { return c.lines }
func (c SubmitForReviewCommand) Places() *int             { return c.places }

func (c SubmitForReviewCommand) Validate() error {
	return c.guard.Validate(ErrSubmitForReviewCommandIsNotConstructed)
}
