package task

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Line is the participation of one shipment line in a task.
type Line struct {
	id             kernel.UUID
	shipmentLineID kernel.UUID
	sku            string
	qty            decimal.Decimal
	result         shipment.LineResult
}

// NewLine creates a task line covering qty units of a shipment line.
func NewLine(shipmentLineID kernel.UUID, sku string, qty decimal.Decimal) (*Line, error) {
	return RestoreLine(kernel.NewUUID(), shipmentLineID, sku, qty, shipment.LineResult{})
}

// RestoreLine rebuilds a persisted task line.
func RestoreLine(
	id, shipmentLineID kernel.UUID,
	sku string,
	qty decimal.Decimal,
	result shipment.LineResult,
) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := shipmentLineID.Validate(); err != nil {
		return nil, err
	}
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, errs.NewValueIsRequiredError("sku")
	}
	if !qty.IsPositive() {
		return nil, errs.NewValueIsInvalidErrorWithCause("qty", fmt.Errorf("%s is not greater than 0", qty))
	}

	return &Line{
		id:             id,
		shipmentLineID: shipmentLineID,
		sku:            sku,
		qty:            qty,
		result:         result,
	}, nil
}

func (l *Line) ID() kernel.UUID {
	return l.id
}

func (l *Line) ShipmentLineID() kernel.UUID {
	return l.shipmentLineID
}

func (l *Line) SKU() string {
	return l.sku
}

func (l *Line) Qty() decimal.Decimal {
	return l.qty
}

func (l *Line) Result() shipment.LineResult {
	return l.result
}

// collected returns the collected quantity, zero when nothing was recorded.
func (l *Line) collected() decimal.Decimal {
	if l.result.CollectedQty == nil {
		return decimal.Zero
	}
	return *l.result.CollectedQty
}

// LineUpdate is a quantity written for one task line. Done marks the line as
// checked off by the collector or confirmed by the checker.
type LineUpdate struct {
	LineID   kernel.UUID
	Quantity decimal.Decimal
	Done     bool
}

// validateUpdates resolves each update to its line and checks 0 <= quantity <= qty.
func (t *Task) validateUpdates(updates []LineUpdate) ([]*Line, error) {
	seen := make(map[kernel.UUID]struct{}, len(updates))
	resolved := make([]*Line, 0, len(updates))

	for _, u := range updates {
		line, ok := t.Line(u.LineID)
		if !ok {
			return nil, errs.NewValueIsInvalidErrorWithCause(
				"line",
				fmt.Errorf("%s is not part of task %s", u.LineID, t.id),
			)
		}
		if _, dup := seen[u.LineID]; dup {
			return nil, errs.NewValueIsInvalidErrorWithCause("line", fmt.Errorf("%s is updated twice", u.LineID))
		}
		seen[u.LineID] = struct{}{}

		if u.Quantity.IsNegative() || u.Quantity.GreaterThan(line.qty) {
			return nil, errs.NewValueIsOutOfRangeError("quantity of "+line.sku, u.Quantity.String(), "0", line.qty.String())
		}
		resolved = append(resolved, line)
	}
	return resolved, nil
}
