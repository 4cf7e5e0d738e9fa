package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDispatchTaskStatisticsCommandIsNotConstructed = errors.New(
	"DispatchTaskStatisticsCommand must be created via NewDispatchTaskStatisticsCommand constructor",
)

// DispatchTaskStatisticsCommand delivers up to batchSize pending task reports.
type DispatchTaskStatisticsCommand struct {
	batchSize int
	guard     guard.ConstructorGuard
}

func NewDispatchTaskStatisticsCommand(batchSize int) (DispatchTaskStatisticsCommand, error) {
	if batchSize < 1 {
		return DispatchTaskStatisticsCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}
	return DispatchTaskStatisticsCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}, nil
}

func (c DispatchTaskStatisticsCommand) BatchSize() int {
	return c.batchSize
}

func (c DispatchTaskStatisticsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchTaskStatisticsCommandIsNotConstructed)
}
