package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/guard"
)

var ErrAdminResetCommandIsNotConstructed = errors.New(
	"AdminResetCommand must be created via NewAdminResetCommand constructor",
)

// AdminResetCommand rewinds every task of a shipment, or soft-deletes it.
type AdminResetCommand struct {
	shipmentID kernel.UUID
	actor      actor.Actor
	mode       lifecycle.ResetMode
	guard      guard.ConstructorGuard
}

func NewAdminResetCommand(shipmentID kernel.UUID, caller actor.Actor, mode lifecycle.ResetMode) (AdminResetCommand, error) {
	if err := errors.Join(shipmentID.Validate(), caller.Validate(), mode.Validate()); err != nil {
		return AdminResetCommand{}, err
	}
	return AdminResetCommand{
		shipmentID: shipmentID,
		actor:      caller,
		mode:       mode,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AdminResetCommand) ShipmentID() kernel.UUID   { return c.shipmentID }
func (c AdminResetCommand) Actor() actor.Actor        { return c.actor }
func (c AdminResetCommand) Mode() lifecycle.ResetMode { return c.mode }

func (c AdminResetCommand) Validate() error {
	return c.guard.Validate(ErrAdminResetCommandIsNotConstructed)
}
