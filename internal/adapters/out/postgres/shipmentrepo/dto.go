// Package shipmentrepo persists shipment aggregates and their lines.
package shipmentrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShipmentDTO is the row of the shipments table.
type ShipmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      string
	Customer    string
	Destination string
	Region      string
	Weight      decimal.Decimal `gorm:"type:numeric"`
	Places      int
	Comment     string
	Status      int
	CreatedAt   time.Time
	ConfirmedAt *time.Time
	DeletedAt   *time.Time
	ExportedAt  *time.Time
	Lines       []LineDTO `gorm:"foreignKey:ShipmentID"`
}

func (ShipmentDTO) TableName() string {
	return "shipments"
}

// LineDTO is the row of the shipment_lines table.
type LineDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID    uuid.UUID `gorm:"type:uuid"`
	Position      int
	SKU           string `gorm:"column:sku"`
	Name          string
	Qty           decimal.Decimal `gorm:"type:numeric"`
	UOM           string          `gorm:"column:uom"`
	Warehouse     string
	Location      string
	SecondaryCode string
	CollectedQty  *decimal.Decimal `gorm:"type:numeric"`
	ConfirmedQty  *decimal.Decimal `gorm:"type:numeric"`
	Checked       bool
	Confirmed     bool
}

func (LineDTO) TableName() string {
	return "shipment_lines"
}

func fromDomain(s *shipment.Shipment) ShipmentDTO {
	h := s.Header()
	lines := make([]LineDTO, 0, len(s.Lines()))
	for i, l := range s.Lines() {
		lines = append(lines, lineFromDomain(s.ID(), i, l))
	}

	return ShipmentDTO{
		ID:          s.ID().Bytes(),
		Number:      h.Number,
		Customer:    h.Customer,
		Destination: h.Destination,
		Region:      h.Region,
		Weight:      h.Weight,
		Places:      h.Places,
		Comment:     h.Comment,
		Status:      int(s.Status()),
		CreatedAt:   s.CreatedAt(),
		ConfirmedAt: s.ConfirmedAt(),
		DeletedAt:   s.DeletedAt(),
		ExportedAt:  s.ExportedAt(),
		Lines:       lines,
	}
}

func lineFromDomain(shipmentID kernel.UUID, position int, l *shipment.Line) LineDTO {
	r := l.Result()
	return LineDTO{
		ID:            l.ID().Bytes(),
		ShipmentID:    shipmentID.Bytes(),
		Position:      position,
		SKU:           l.SKU(),
		Name:          l.Name(),
		Qty:           l.Qty(),
		UOM:           l.UOM(),
		Warehouse:     l.Warehouse().Code(),
		Location:      l.Location(),
		SecondaryCode: l.SecondaryCode(),
		CollectedQty:  r.CollectedQty,
		ConfirmedQty:  r.ConfirmedQty,
		Checked:       r.Checked,
		Confirmed:     r.Confirmed,
	}
}

// resultColumns are the line columns changed after intake.
func (d LineDTO) resultColumns() map[string]any {
	return map[string]any{
		"collected_qty": d.CollectedQty,
		"confirmed_qty": d.ConfirmedQty,
		"checked":       d.Checked,
		"confirmed":     d.Confirmed,
	}
}

func toDomain(dto ShipmentDTO) (*shipment.Shipment, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	lines := make([]*shipment.Line, 0, len(dto.Lines))
	for _, ld := range dto.Lines {
		line, lineErr := lineToDomain(ld)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return shipment.RestoreShipment(shipment.Snapshot{
		ID: id,
		Header: shipment.Header{
			Number:      dto.Number,
			Customer:    dto.Customer,
			Destination: dto.Destination,
			Region:      dto.Region,
			Weight:      dto.Weight,
			Places:      dto.Places,
			Comment:     dto.Comment,
		},
		Status:      lifecycle.Status(dto.Status),
		Lines:       lines,
		CreatedAt:   dto.CreatedAt,
		ConfirmedAt: dto.ConfirmedAt,
		DeletedAt:   dto.DeletedAt,
		ExportedAt:  dto.ExportedAt,
	})
}

func lineToDomain(dto LineDTO) (*shipment.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	warehouse, err := kernel.NewWarehouse(dto.Warehouse)
	if err != nil {
		return nil, err
	}

	return shipment.RestoreLine(id, shipment.LineSpec{
		SKU:           dto.SKU,
		Name:          dto.Name,
		Qty:           dto.Qty,
		UOM:           dto.UOM,
		Warehouse:     warehouse,
		Location:      dto.Location,
		SecondaryCode: dto.SecondaryCode,
	}, shipment.LineResult{
		CollectedQty: dto.CollectedQty,
		ConfirmedQty: dto.ConfirmedQty,
		Checked:      dto.Checked,
		Confirmed:    dto.Confirmed,
	})
}
