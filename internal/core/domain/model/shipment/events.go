package shipment

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
)

const (
	EventCreated       = "shipment.created"
	EventStatusChanged = "shipment.status_changed"
	EventDeleted       = "shipment.deleted"
	EventExported      = "shipment.exported"
)

// Created is raised once a shipment has been accepted at intake.
type Created struct {
	ShipmentID kernel.UUID `json:"shipmentId"`
	Number     string      `json:"number"`
	LineCount  int         `json:"lineCount"`
	At         time.Time   `json:"at"`
}

func (e Created) EventType() string        { return EventCreated }
func (e Created) AggregateID() kernel.UUID { return e.ShipmentID }
func (e Created) OccurredAt() time.Time    { return e.At }

// StatusChanged is raised when the rollup moves the shipment to another status.
type StatusChanged struct {
	ShipmentID kernel.UUID      `json:"shipmentId"`
	From       lifecycle.Status `json:"from"`
	To         lifecycle.Status `json:"to"`
	At         time.Time        `json:"at"`
}

func (e StatusChanged) EventType() string        { return EventStatusChanged }
func (e StatusChanged) AggregateID() kernel.UUID { return e.ShipmentID }
func (e StatusChanged) OccurredAt() time.Time    { return e.At }

// Deleted is raised by a soft delete.
type Deleted struct {
	ShipmentID kernel.UUID `json:"shipmentId"`
	At         time.Time   `json:"at"`
}

func (e Deleted) EventType() string        { return EventDeleted }
func (e Deleted) AggregateID() kernel.UUID { return e.ShipmentID }
func (e Deleted) OccurredAt() time.Time    { return e.At }

// Exported is raised when the shipment has been handed over to the ERP.
type Exported struct {
	ShipmentID kernel.UUID `json:"shipmentId"`
	At         time.Time   `json:"at"`
}

func (e Exported) EventType() string        { return EventExported }
func (e Exported) AggregateID() kernel.UUID { return e.ShipmentID }
func (e Exported) OccurredAt() time.Time    { return e.At }
