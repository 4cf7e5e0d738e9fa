// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work, the event sink and the
// statistics engine.
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
)

// ShipmentRepository defines the persistence contract for shipment aggregates
// together with their lines.
type ShipmentRepository interface {
	// Add persists a new shipment and its lines. A duplicate shipment number
	// is reported as a conflict with code DUPLICATE.
	Add(ctx context.Context, aggregate *shipment.Shipment) error

	// Update persists header state and line results of an existing shipment.
	Update(ctx context.Context, aggregate *shipment.Shipment) error

	// Get loads a shipment that has not been soft-deleted.
	Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)

	// GetForUpdate loads a non-deleted shipment and holds its row lock until
	// the transaction ends. Rollup-triggering operations call it before
	// locking any task of the shipment.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error)
}
