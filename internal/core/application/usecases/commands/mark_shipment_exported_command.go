package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkShipmentExportedCommandIsNotConstructed = errors.New(
	"MarkShipmentExportedCommand must be created via NewMarkShipmentExportedCommand constructor",
)

// MarkShipmentExportedCommand records that a processed shipment was handed to the ERP.
type MarkShipmentExportedCommand struct {
	shipmentID kernel.UUID
	actor      actor.Actor
	guard      guard.ConstructorGuard
}

func NewMarkShipmentExportedCommand(shipmentID kernel.UUID, caller actor.Actor) (MarkShipmentExportedCommand, error) {
	if err := errors.Join(shipmentID.Validate(), caller.Validate()); err != nil {
		return MarkShipmentExportedCommand{}, err
	}
	return MarkShipmentExportedCommand{shipmentID: shipmentID, actor: caller, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkShipmentExportedCommand) ShipmentID() kernel.UUID { return c.shipmentID }
func (c MarkShipmentExportedCommand) Actor() actor.Actor      { return c.actor }

func (c MarkShipmentExportedCommand) Validate() error {
	return c.guard.Validate(ErrMarkShipmentExportedCommandIsNotConstructed)
}
