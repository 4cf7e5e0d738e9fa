package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
)

// EventNotifier receives domain events after the transaction that raised them
// has committed. Delivery is fire-and-forget: implementations must not block
// the caller for long and their failures never undo a committed change.
type EventNotifier interface {
	Notify(ctx context.Context, events ...kernel.DomainEvent) error
}
