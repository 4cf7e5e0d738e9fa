package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetUnexportedShipmentsQueryIsNotConstructed = errors.New(
	"GetUnexportedShipmentsQuery must be created via NewGetUnexportedShipmentsQuery constructor",
)

// DefaultUnexportedLimit caps a page of the ERP export backlog.
const DefaultUnexportedLimit = 100

// GetUnexportedShipmentsQuery lists Processed shipments awaiting ERP export,
// oldest confirmation first.
type GetUnexportedShipmentsQuery struct {
	limit int
	guard guard.ConstructorGuard
}

func NewGetUnexportedShipmentsQuery(limit int) (GetUnexportedShipmentsQuery, error) {
	if limit < 1 {
		return GetUnexportedShipmentsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return GetUnexportedShipmentsQuery{limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q GetUnexportedShipmentsQuery) Limit() int {
	return q.limit
}

func (q GetUnexportedShipmentsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnexportedShipmentsQueryIsNotConstructed)
}

// UnexportedShipmentView is one entry of the export backlog.
type UnexportedShipmentView struct {
	ID          kernel.UUID `json:"id"`
	Number      string      `json:"number"`
	Customer    string      `json:"customer"`
	Places      int         `json:"places"`
	ConfirmedAt time.Time   `json:"confirmedAt"`
}
