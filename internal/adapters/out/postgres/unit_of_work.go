// Package postgres provides the GORM-based Unit of Work and the PostgreSQL
// plumbing shared by the repositories: connection setup, embedded schema
// migrations and readiness checks.
//
// A unit of work owns one transaction. Repositories obtained from it run
// inside that transaction once Begin was called and register every aggregate
// they write. After a successful Commit the domain events recorded by those
// aggregates are handed to the EventNotifier; Rollback drops them.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, notifier, clock.System{}, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	sh, err := uow.ShipmentRepository().GetForUpdate(ctx, shipmentID)
//	if err != nil {
//	    return err
//	}
//	tk, err := uow.TaskRepository().GetForUpdate(ctx, taskID)
//	if err != nil {
//	    return err
//	}
//	// ... change sh and tk, then Update both
//
//	return uow.Commit(ctx)
//
// Each UnitOfWork instance is confined to one goroutine. Concurrent
// operations use separate instances and rely on row locks for isolation.
package postgres

import (
	"context"
	"log/slog"

	"fulfillment/internal/adapters/out/postgres/lockrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

type eventSource interface {
	PullEvents() []kernel.DomainEvent
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	notifier ports.EventNotifier
	clock    clock.Clock
	logger   *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
func NewGormUnitOfWorkFactory(
	db *gorm.DB,
	notifier ports.EventNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:       db,
		notifier: notifier,
		clock:    clk,
		logger:   logger.With("component", "unit-of-work"),
	}
}

// Create produces a new UnitOfWork with its own transaction state.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		notifier:          f.notifier,
		clock:             f.clock,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and the aggregates
// written in it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	notifier          ports.EventNotifier
	clock             clock.Clock
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the domain events of
// every tracked aggregate. A failing notifier is logged and does not undo
// the commit.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	events := uow.pullEvents()
	if len(events) == 0 || uow.notifier == nil {
		return nil
	}
	if notifyErr := uow.notifier.Notify(ctx, events...); notifyErr != nil {
		uow.logger.WarnContext(ctx, "failed to publish domain events",
			"events", len(events),
			"error", notifyErr,
		)
	}
	return nil
}

// Rollback discards the transaction and the events collected in it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) ShipmentRepository() ports.ShipmentRepository {
	return shipmentrepo.NewGormShipmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) TaskRepository() ports.TaskRepository {
	return taskrepo.NewGormTaskRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) LockRepository() ports.LockRepository {
	return lockrepo.NewGormLockRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StatisticsOutbox() ports.StatisticsOutbox {
	return outboxrepo.NewGormStatisticsOutbox(uow.conn(), uow.clock)
}

// TrackAggregate registers an aggregate written within this unit of work.
// Repositories call it after every successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// pullEvents drains events in tracking order. An aggregate tracked twice
// yields its events once because PullEvents clears them.
func (uow *GormUnitOfWork) pullEvents() []kernel.DomainEvent {
	var events []kernel.DomainEvent
	for _, tracked := range uow.trackedAggregates {
		if source, ok := tracked.Aggregate.(eventSource); ok {
			events = append(events, source.PullEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}
