package services_test

import (
	"fmt"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func warehouse(t *testing.T, code string) kernel.Warehouse {
	t.Helper()
	w, err := kernel.NewWarehouse(code)
	require.NoError(t, err)
	return w
}

// shipmentWithLines builds a shipment with counts[i] lines in warehouses[i].
func shipmentWithLines(t *testing.T, warehouses []string, counts []int) *shipment.Shipment {
	t.Helper()
	specs := make([]shipment.LineSpec, 0)
	for i, code := range warehouses {
		w := warehouse(t, code)
		for n := 0; n < counts[i]; n++ {
			specs = append(specs, shipment.LineSpec{
				SKU:       fmt.Sprintf("%s-%03d", code, n),
				Name:      "Item",
				Qty:       decimal.New(int64(n%4+1), 0),
				UOM:       "pcs",
				Warehouse: w,
			})
		}
	}

	sh, err := shipment.NewShipment(shipment.Header{Number: "SO-1", Customer: "ACME"}, specs, now)
	require.NoError(t, err)
	return sh
}

func TestNewSplitter(t *testing.T) {
	_, err := services.NewSplitter(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	s, err := services.NewSplitter(35)
	require.NoError(t, err)
	assert.Equal(t, 35, s.MaxTaskSize())
}

func TestSplitter_Split(t *testing.T) {
	splitter, err := services.NewSplitter(services.DefaultMaxTaskSize)
	require.NoError(t, err)

	t.Run("10/20/70 lines over three warehouses give four tasks", func(t *testing.T) {
		sh := shipmentWithLines(t, []string{"A", "B", "C"}, []int{10, 20, 70})

		tasks, err := splitter.Split(sh, now)

		require.NoError(t, err)
		require.Len(t, tasks, 4)

		sizes := make([]int, 0, len(tasks))
		codes := make([]string, 0, len(tasks))
		for _, tk := range tasks {
			sizes = append(sizes, len(tk.Lines()))
			codes = append(codes, tk.Warehouse().Code())
			assert.Equal(t, lifecycle.New, tk.Status())
			assert.True(t, tk.ShipmentID().IsEqual(sh.ID()))
		}
		assert.Equal(t, []int{10, 20, 35, 35}, sizes)
		assert.Equal(t, []string{"A", "B", "C", "C"}, codes)
	})

	t.Run("every shipment line is covered exactly once with its full quantity", func(t *testing.T) {
		sh := shipmentWithLines(t, []string{"A", "B"}, []int{40, 3})

		tasks, err := splitter.Split(sh, now)
		require.NoError(t, err)

		covered := make(map[kernel.UUID]decimal.Decimal)
		for _, tk := range tasks {
			for _, l := range tk.Lines() {
				_, dup := covered[l.ShipmentLineID()]
				require.False(t, dup)
				covered[l.ShipmentLineID()] = l.Qty()
			}
		}
		require.Len(t, covered, len(sh.Lines()))
		for _, l := range sh.Lines() {
			assert.True(t, covered[l.ID()].Equal(l.Qty()), "line %s", l.SKU())
		}
	})

	t.Run("groups keep first appearance order when warehouses interleave", func(t *testing.T) {
		b, a := warehouse(t, "B"), warehouse(t, "A")
		specs := []shipment.LineSpec{
			{SKU: "1", Name: "x", Qty: decimal.New(1, 0), Warehouse: b},
			{SKU: "2", Name: "x", Qty: decimal.New(1, 0), Warehouse: a},
			{SKU: "3", Name: "x", Qty: decimal.New(1, 0), Warehouse: b},
		}
		sh, err := shipment.NewShipment(shipment.Header{Number: "SO-2", Customer: "ACME"}, specs, now)
		require.NoError(t, err)

		plan := splitter.Plan(sh.Lines())

		require.Len(t, plan, 2)
		assert.Equal(t, "B", plan[0][0].Warehouse().Code())
		assert.Equal(t, []string{"1", "3"}, []string{plan[0][0].SKU(), plan[0][1].SKU()})
		assert.Equal(t, "2", plan[1][0].SKU())
	})

	t.Run("exact multiple of the limit produces full chunks only", func(t *testing.T) {
		small, err := services.NewSplitter(5)
		require.NoError(t, err)
		sh := shipmentWithLines(t, []string{"A"}, []int{10})

		tasks, err := small.Split(sh, now)

		require.NoError(t, err)
		require.Len(t, tasks, 2)
		assert.Len(t, tasks[0].Lines(), 5)
		assert.Len(t, tasks[1].Lines(), 5)
	})

	t.Run("zero value splitter is rejected", func(t *testing.T) {
		sh := shipmentWithLines(t, []string{"A"}, []int{1})

		_, err := services.Splitter{}.Split(sh, now)

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}
