package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
)

// TaskRepository defines the persistence contract for task aggregates.
// Tasks of soft-deleted shipments are not found.
type TaskRepository interface {
	// AddAll persists freshly split tasks with their lines.
	AddAll(ctx context.Context, tasks []*task.Task) error

	// Update persists status, designations, timestamps, metrics and line results.
	Update(ctx context.Context, aggregate *task.Task) error

	Get(ctx context.Context, id kernel.UUID) (*task.Task, error)

	// GetForUpdate loads a task and holds its row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*task.Task, error)

	// ListByShipment returns every task of a shipment ordered by creation.
	ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*task.Task, error)

	// ListByShipmentForUpdate is ListByShipment holding row locks on all tasks.
	ListByShipmentForUpdate(ctx context.Context, shipmentID kernel.UUID) ([]*task.Task, error)
}
