package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/clock"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func newActor(t *testing.T, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func header() shipment.Header {
	return shipment.Header{Number: "SO-1001", Customer: "ACME Retail", Places: 1}
}

func lineSpecs(t *testing.T) []shipment.LineSpec {
	t.Helper()
	main, err := kernel.NewWarehouse("MAIN")
	require.NoError(t, err)
	cold, err := kernel.NewWarehouse("COLD")
	require.NoError(t, err)

	return []shipment.LineSpec{
		{SKU: "SKU-1", Name: "Box", Qty: decimal.NewFromInt(4), UOM: "pcs", Warehouse: main},
		{SKU: "SKU-2", Name: "Ice", Qty: decimal.NewFromInt(2), UOM: "pcs", Warehouse: cold},
	}
}

// splitShipment returns a shipment with one task per warehouse.
func splitShipment(t *testing.T) (*shipment.Shipment, []*task.Task) {
	t.Helper()
	sh, err := shipment.NewShipment(header(), lineSpecs(t), t0)
	require.NoError(t, err)
	splitter, err := services.NewSplitter(services.DefaultMaxTaskSize)
	require.NoError(t, err)
	tasks, err := splitter.Split(sh, t0)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	sh.PullEvents()
	return sh, tasks
}

func fullUpdates(tk *task.Task) []task.LineUpdate {
	updates := make([]task.LineUpdate, 0, len(tk.Lines()))
	for _, l := range tk.Lines() {
		updates = append(updates, task.LineUpdate{LineID: l.ID(), Quantity: l.Qty(), Done: true})
	}
	return updates
}

func submit(t *testing.T, tk *task.Task, collector actor.Actor) {
	t.Helper()
	require.NoError(t, tk.SubmitForReview(task.SubmitInput{
		CollectorID: collector.UserID(),
		Lines:       fullUpdates(tk),
		Now:         t0,
	}))
	tk.PullEvents()
}

func confirm(t *testing.T, tk *task.Task, checker actor.Actor) {
	t.Helper()
	require.NoError(t, tk.Confirm(task.ConfirmInput{CheckerID: checker.UserID(), Now: t0}))
	tk.PullEvents()
}

func lockOf(t *testing.T, tk *task.Task, holder actor.Actor, at time.Time) *tasklock.Lock {
	t.Helper()
	l, err := tasklock.RestoreLock(tk.ID(), holder.UserID(), at, at)
	require.NoError(t, err)
	return l
}

func fixedClock(at time.Time) *clock.Fixed {
	return clock.NewFixed(at)
}

func lockManager(t *testing.T) services.LockManager {
	t.Helper()
	roles, err := actor.ParsePolicy("COLD:specialist")
	require.NoError(t, err)
	return services.NewLockManager(tasklock.DefaultPolicy(), roles)
}
