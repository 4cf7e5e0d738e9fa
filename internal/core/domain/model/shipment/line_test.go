package shipment_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRestoreLine(t *testing.T) {
	id := kernel.NewUUID()
	collected := decimal.RequireFromString("1.5")
	spec := lineSpec(t, " SKU-7 ", "MAIN", 2)
	spec.SecondaryCode = "4006381333931"

	line, err := shipment.RestoreLine(id, spec, shipment.LineResult{CollectedQty: &collected, Checked: true})

	require.NoError(t, err)
	assert.Equal(t, id, line.ID())
	assert.Equal(t, "SKU-7", line.SKU())
	assert.Equal(t, "pcs", line.UOM())
	assert.Equal(t, "A-01-02", line.Location())
	assert.Equal(t, "4006381333931", line.SecondaryCode())
	assert.True(t, line.Qty().Equal(decimal.New(2, 0)))
	assert.True(t, line.Result().CollectedQty.Equal(collected))
	assert.True(t, line.Result().Checked)
}

func TestRestoreLine_Invalid(t *testing.T) {
	_, err := shipment.RestoreLine(kernel.UUID{}, lineSpec(t, "SKU-1", "MAIN", 1), shipment.LineResult{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = shipment.RestoreLine(kernel.NewUUID(), lineSpec(t, "SKU-1", "MAIN", -2), shipment.LineResult{})
	require.Error(t, err)
}
