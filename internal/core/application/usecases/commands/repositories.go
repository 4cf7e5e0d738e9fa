// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination of repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ShipmentRepoFactory interface {
		ShipmentRepository() ports.ShipmentRepository
	}

	TaskRepoFactory interface {
		TaskRepository() ports.TaskRepository
	}

	LockRepoFactory interface {
		LockRepository() ports.LockRepository
	}

	OutboxFactory interface {
		StatisticsOutbox() ports.StatisticsOutbox
	}

	// LockUoW covers operations confined to one task and its lock:
	// acquire, release, picking progress and checking progress.
	LockUoW interface {
		TxManager
		TaskRepoFactory
		LockRepoFactory
	}

	LockUoWFactory interface {
		Create() LockUoW
	}

	// ShipmentUoW covers shipment-only bookkeeping such as ERP export.
	ShipmentUoW interface {
		TxManager
		ShipmentRepoFactory
	}

	ShipmentUoWFactory interface {
		Create() ShipmentUoW
	}

	// OutboxUoW covers statistics delivery.
	OutboxUoW interface {
		TxManager
		OutboxFactory
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// UoW manages transactions across shipments, tasks, locks and the outbox.
	// Used by intake and by every transition that rolls task state up into
	// the shipment.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   sh, err := uow.ShipmentRepository().GetForUpdate(ctx, shipmentID)
	//   tk, err := uow.TaskRepository().GetForUpdate(ctx, taskID)
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		ShipmentRepoFactory
		TaskRepoFactory
		LockRepoFactory
		OutboxFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
