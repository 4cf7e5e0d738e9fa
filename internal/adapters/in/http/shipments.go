package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type newShipmentLine struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Qty           decimal.Decimal `json:"qty"`
	UOM           string          `json:"uom"`
	Warehouse     string          `json:"warehouse"`
	Location      string          `json:"location"`
	SecondaryCode string          `json:"secondaryCode"`
}

type newShipment struct {
	Number      string            `json:"number"`
	Customer    string            `json:"customer"`
	Destination string            `json:"destination"`
	Region      string            `json:"region"`
	Weight      decimal.Decimal   `json:"weight"`
	Places      int               `json:"places"`
	Comment     string            `json:"comment"`
	Lines       []newShipmentLine `json:"lines"`
}

type createdShipment struct {
	ShipmentID kernel.UUID   `json:"shipmentId"`
	TaskIDs    []kernel.UUID `json:"taskIds"`
}

type resetRequest struct {
	Mode string `json:"mode"`
}

// CreateShipment handles POST /api/v1/shipments.
func (s *Server) CreateShipment(ctx echo.Context) error {
	var body newShipment
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	specs := make([]shipment.LineSpec, 0, len(body.Lines))
	for _, l := range body.Lines {
		warehouse, err := kernel.NewWarehouse(l.Warehouse)
		if err != nil {
			return s.fail(ctx, err)
		}
		specs = append(specs, shipment.LineSpec{
			SKU:           l.SKU,
			Name:          l.Name,
			Qty:           l.Qty,
			UOM:           l.UOM,
			Warehouse:     warehouse,
			Location:      l.Location,
			SecondaryCode: l.SecondaryCode,
		})
	}

	cmd, err := commands.NewCreateShipmentCommand(shipment.Header{
		Number:      body.Number,
		Customer:    body.Customer,
		Destination: body.Destination,
		Region:      body.Region,
		Weight:      body.Weight,
		Places:      body.Places,
		Comment:     body.Comment,
	}, specs)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CreateShipment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, createdShipment{ShipmentID: result.ShipmentID, TaskIDs: result.TaskIDs})
}

// GetShipment handles GET /api/v1/shipments/{shipmentId}.
func (s *Server) GetShipment(ctx echo.Context) error {
	id, err := pathUUID(ctx, "shipmentId")
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetShipmentQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.GetShipment.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// AdminReset handles POST /api/v1/shipments/{shipmentId}/reset.
func (s *Server) AdminReset(ctx echo.Context) error {
	id, err := pathUUID(ctx, "shipmentId")
	if err != nil {
		return s.fail(ctx, err)
	}
	var body resetRequest
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	mode, err := lifecycle.ParseResetMode(body.Mode)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewAdminResetCommand(id, callerOf(ctx), mode)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.AdminReset.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// GetUnexportedShipments handles GET /api/v1/shipments/unexported.
func (s *Server) GetUnexportedShipments(ctx echo.Context) error {
	limit, err := queryParam[*int](ctx, "limit", true)
	if err != nil {
		return s.fail(ctx, err)
	}
	size := queries.DefaultUnexportedLimit
	if limit != nil {
		size = *limit
	}

	query, err := queries.NewGetUnexportedShipmentsQuery(size)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.handlers.GetUnexportedShipments.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	if views == nil {
		views = []queries.UnexportedShipmentView{}
	}
	return ctx.JSON(http.StatusOK, views)
}

// MarkShipmentExported handles POST /api/v1/shipments/{shipmentId}/exported.
func (s *Server) MarkShipmentExported(ctx echo.Context) error {
	id, err := pathUUID(ctx, "shipmentId")
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewMarkShipmentExportedCommand(id, callerOf(ctx))
	if err != nil {
		return s.fail(ctx, err)
	}
	if err = s.handlers.MarkShipmentExported.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}
