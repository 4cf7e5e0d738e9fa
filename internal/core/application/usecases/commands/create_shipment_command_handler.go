package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"
)

// CreateShipmentResult identifies the stored shipment and the tasks it was split into.
type CreateShipmentResult struct {
	ShipmentID kernel.UUID
	TaskIDs    []kernel.UUID
}

// CreateShipmentCommandHandler builds the shipment, splits it into tasks and
// persists everything atomically, so an order never exists without its tasks.
// A shipment number that is already taken fails with DUPLICATE.
type CreateShipmentCommandHandler struct {
	uowFactory UoWFactory
	splitter   services.Splitter
	clock      clock.Clock
}

func NewCreateShipmentCommandHandler(
	uowFactory UoWFactory,
	splitter services.Splitter,
	clk clock.Clock,
) CreateShipmentCommandHandler {
	return CreateShipmentCommandHandler{
		uowFactory: uowFactory,
		splitter:   splitter,
		clock:      clk,
	}
}

func (h CreateShipmentCommandHandler) Handle(ctx context.Context, command CreateShipmentCommand) (CreateShipmentResult, error) {
	if err := command.Validate(); err != nil {
		return CreateShipmentResult{}, err
	}

	now := h.clock.Now()
	sh, err := shipment.NewShipment(command.Header(), command.Lines(), now)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	tasks, err := h.splitter.Split(sh, now)
	if err != nil {
		return CreateShipmentResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.ShipmentRepository().Add(ctx, sh); err != nil {
		return CreateShipmentResult{}, err
	}

	if err = uow.TaskRepository().AddAll(ctx, tasks); err != nil {
		return CreateShipmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateShipmentResult{}, err
	}

	result := CreateShipmentResult{
		ShipmentID: sh.ID(),
		TaskIDs:    make([]kernel.UUID, 0, len(tasks)),
	}
	for _, t := range tasks {
		result.TaskIDs = append(result.TaskIDs, t.ID())
	}
	return result, nil
}
