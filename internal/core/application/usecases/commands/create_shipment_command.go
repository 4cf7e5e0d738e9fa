package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateShipmentCommandIsNotConstructed = errors.New(
	"CreateShipmentCommand must be created via NewCreateShipmentCommand constructor",
)

// CreateShipmentCommand registers a customer order received from the ERP.
// The shipment, its lines and the tasks produced by the splitter are stored
// in one transaction.
//
// Example:
//
//	cmd, err := NewCreateShipmentCommand(shipment.Header{
//	    Number:   "SO-1001",
//	    Customer: "ACME Retail",
//	}, []shipment.LineSpec{
//	    {SKU: "SKU-1", Name: "Box", Qty: decimal.NewFromInt(3), Warehouse: main},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateShipmentCommand struct {
	header shipment.Header
	lines  []shipment.LineSpec
	guard  guard.ConstructorGuard
}

// NewCreateShipmentCommand requires at least one line. Field level validation
// happens when the shipment aggregate is built.
func NewCreateShipmentCommand(header shipment.Header, lines []shipment.LineSpec) (CreateShipmentCommand, error) {
	if len(lines) == 0 {
		return CreateShipmentCommand{}, errs.NewValueIsRequiredError("lines")
	}

	copied := make([]shipment.LineSpec, len(lines))
	copy(copied, lines)

	return CreateShipmentCommand{
		header: header,
		lines:  copied,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c CreateShipmentCommand) Header() shipment.Header {
	return c.header
}

func (c CreateShipmentCommand) Lines() []shipment.LineSpec {
	return c.lines
}

// Validate ensures the command was created through the constructor.
func (c CreateShipmentCommand) Validate() error {
	return c.guard.Validate(ErrCreateShipmentCommandIsNotConstructed)
}
