package shipment

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// LineSpec is the intake payload of one shipment line.
type LineSpec struct {
	SKU           string
	Name          string
	Qty           decimal.Decimal
	UOM           string
	Warehouse     kernel.Warehouse
	Location      string
	SecondaryCode string
}

// LineResult is the picking and checking outcome recorded on a line.
type LineResult struct {
	CollectedQty *decimal.Decimal
	ConfirmedQty *decimal.Decimal
	Checked      bool
	Confirmed    bool
}

// Line is one SKU of a shipment. Its warehouse never changes after intake.
type Line struct {
	id     kernel.UUID
	spec   LineSpec
	result LineResult
}

func newLine(spec LineSpec) (*Line, error) {
	spec.SKU = strings.TrimSpace(spec.SKU)
	spec.Name = strings.TrimSpace(spec.Name)

	var problems []error
	if spec.SKU == "" {
		problems = append(problems, errs.NewValueIsRequiredError("sku"))
	}
	if spec.Name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("name"))
	}
	if !spec.Qty.IsPositive() {
		problems = append(problems, errs.NewValueIsInvalidErrorWithCause(
			"qty",
			fmt.Errorf("%s is not greater than 0", spec.Qty),
		))
	}
	if err := spec.Warehouse.Validate(); err != nil {
		problems = append(problems, err)
	}
	if err := errors.Join(problems...); err != nil {
		return nil, fmt.Errorf("line %q: %w", spec.SKU, err)
	}

	return &Line{id: kernel.NewUUID(), spec: spec}, nil
}

// RestoreLine rebuilds a persisted line.
func RestoreLine(id kernel.UUID, spec LineSpec, result LineResult) (*Line, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	line, err := newLine(spec)
	if err != nil {
		return nil, err
	}
	line.id = id
	line.result = result
	return line, nil
}

func (l *Line) ID() kernel.UUID {
	return l.id
}

func (l *Line) SKU() string {
	return l.spec.SKU
}

func (l *Line) Name() string {
	return l.spec.Name
}

func (l *Line) Qty() decimal.Decimal {
	return l.spec.Qty
}

func (l *Line) UOM() string {
	return l.spec.UOM
}

func (l *Line) Warehouse() kernel.Warehouse {
	return l.spec.Warehouse
}

func (l *Line) Location() string {
	return l.spec.Location
}

func (l *Line) SecondaryCode() string {
	return l.spec.SecondaryCode
}

// Spec returns the intake attributes of the line.
func (l *Line) Spec() LineSpec {
	return l.spec
}

// Result returns the recorded picking and checking outcome.
func (l *Line) Result() LineResult {
	return l.result
}

func (l *Line) setResult(result LineResult) {
	l.result = result
}

func (l *Line) clearPicking() {
	l.result.CollectedQty = nil
	l.result.Checked = false
}

func (l *Line) clearChecking() {
	l.result.ConfirmedQty = nil
	l.result.Confirmed = false
}
