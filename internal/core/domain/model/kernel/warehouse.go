package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

// MaxWarehouseCodeLength bounds the length of a warehouse code.
const MaxWarehouseCodeLength = 64

// ErrWarehouseIsNotConstructed is returned when a zero Warehouse is validated.
var ErrWarehouseIsNotConstructed = errs.NewValueIsRequiredError("Warehouse must be created via NewWarehouse")

// Warehouse is the code of the storage area a shipment line is picked from.
// Tasks never mix warehouses, and some warehouses are restricted to a specialised role.
//
// Codes are trimmed and compared case-sensitively:
//
//	w, err := kernel.NewWarehouse("COLD-1")
type Warehouse struct {
	code  string
	guard guard.ConstructorGuard
}

// NewWarehouse validates and wraps a warehouse code.
func NewWarehouse(code string) (Warehouse, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return Warehouse{}, errs.NewValueIsRequiredError("warehouse")
	}
	if len(code) > MaxWarehouseCodeLength {
		return Warehouse{}, errs.NewValueIsOutOfRangeError("warehouse length", len(code), 1, MaxWarehouseCodeLength)
	}
	if strings.ContainsAny(code, ",:") {
		return Warehouse{}, errs.NewValueIsInvalidErrorWithCause(
			"warehouse",
			fmt.Errorf("%q contains a reserved separator", code),
		)
	}

	return Warehouse{code: code, guard: guard.NewConstructorGuard()}, nil
}

// Code returns the warehouse code.
func (w Warehouse) Code() string {
	return w.code
}

func (w Warehouse) String() string {
	return w.code
}

// IsEqual reports whether both warehouses carry the same code.
func (w Warehouse) IsEqual(other Warehouse) bool {
	return w.code == other.code
}

// Validate returns ErrWarehouseIsNotConstructed for the zero value.
func (w Warehouse) Validate() error {
	return w.guard.Validate(ErrWarehouseIsNotConstructed)
}
