package commands

import (
	"context"
	"fmt"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// MarkShipmentExportedCommandHandler stamps the export flag. Marking twice
// keeps the first timestamp.
type MarkShipmentExportedCommandHandler struct {
	uowFactory ShipmentUoWFactory
	roles      actor.Policy
	clock      clock.Clock
}

func NewMarkShipmentExportedCommandHandler(
	uowFactory ShipmentUoWFactory,
	roles actor.Policy,
	clk clock.Clock,
) MarkShipmentExportedCommandHandler {
	return MarkShipmentExportedCommandHandler{uowFactory: uowFactory, roles: roles, clock: clk}
}

func (h MarkShipmentExportedCommandHandler) Handle(ctx context.Context, command MarkShipmentExportedCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	if !h.roles.CanExport(command.Actor().Role()) {
		return errs.NewForbiddenError(
			errs.CodeForbiddenRole,
			fmt.Sprintf("role %s cannot export shipments", command.Actor().Role()),
		)
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.ShipmentRepository()
	sh, err := repo.GetForUpdate(ctx, command.ShipmentID())
	if err != nil {
		return err
	}

	if err = sh.MarkExported(h.clock.Now()); err != nil {
		return err
	}

	if err = repo.Update(ctx, sh); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
