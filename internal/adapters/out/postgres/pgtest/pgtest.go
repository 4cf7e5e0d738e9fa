// Package pgtest starts a throwaway PostgreSQL for integration suites and
// seeds it with domain fixtures.
package pgtest

import (
	"context"
	"testing"
	"time"

	postgresadapter "fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// Database is a migrated PostgreSQL running in a container.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and applies the embedded migrations.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := postgresadapter.Open(ctx, dsn, postgresadapter.DefaultPoolConfig())
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}
	if err = postgresadapter.Migrate(ctx, db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every table and restarts sequences.
func (d *Database) Truncate(ctx context.Context) error {
	return d.DB.WithContext(ctx).Exec(
		"TRUNCATE TABLE statistics_outbox, task_locks, task_lines, tasks, shipment_lines, shipments RESTART IDENTITY CASCADE",
	).Error
}

func (d *Database) Terminate(ctx context.Context) error {
	if sqlDB, err := d.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return d.Container.Terminate(ctx)
}

// Line describes one intake line of a fixture shipment.
type Line struct {
	SKU       string
	Qty       int64
	Warehouse string
}

// SplitShipment builds a shipment from lines and splits it with the default
// task size. Pending domain events are discarded.
func SplitShipment(t testing.TB, number string, now time.Time, lines ...Line) (*shipment.Shipment, []*task.Task) {
	t.Helper()

	specs := make([]shipment.LineSpec, 0, len(lines))
	for _, l := range lines {
		w, err := kernel.NewWarehouse(l.Warehouse)
		require.NoError(t, err)
		specs = append(specs, shipment.LineSpec{
			SKU:       l.SKU,
			Name:      "Item " + l.SKU,
			Qty:       decimal.NewFromInt(l.Qty),
			UOM:       "pcs",
			Warehouse: w,
		})
	}

	sh, err := shipment.NewShipment(shipment.Header{Number: number, Customer: "ACME Retail"}, specs, now)
	require.NoError(t, err)
	splitter, err := services.NewSplitter(services.DefaultMaxTaskSize)
	require.NoError(t, err)
	tasks, err := splitter.Split(sh, now)
	require.NoError(t, err)

	sh.PullEvents()
	for _, tk := range tasks {
		tk.PullEvents()
	}
	return sh, tasks
}

// Tracker satisfies the repositories' aggregate tracker and remembers what was tracked.
type Tracker struct {
	Tracked []kernel.UUID
}

func (tr *Tracker) TrackAggregate(id kernel.UUID, _ any) {
	tr.Tracked = append(tr.Tracked, id)
}
