package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes; domain events
// recorded on tracked aggregates are handed to the EventNotifier after Commit.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes collected events.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and drops collected events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// ShipmentRepository returns a repository bound to the current transaction.
	ShipmentRepository() ShipmentRepository

	// TaskRepository returns a repository bound to the current transaction.
	TaskRepository() TaskRepository

	// LockRepository returns a repository bound to the current transaction.
	LockRepository() LockRepository

	// StatisticsOutbox returns the outbox bound to the current transaction.
	StatisticsOutbox() StatisticsOutbox
}
