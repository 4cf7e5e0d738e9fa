package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/guard"
)

var ErrGetActiveTasksQueryIsNotConstructed = errors.New(
	"GetActiveTasksQuery must be created via NewGetActiveTasksQuery constructor",
)

// GetActiveTasksQuery lists tasks of non-deleted shipments. Without explicit
// statuses it returns the work still open: New and PendingConfirmation.
type GetActiveTasksQuery struct {
	warehouse *kernel.Warehouse
	statuses  []lifecycle.Status
	guard     guard.ConstructorGuard
}

// NewGetActiveTasksQuery builds the query. A nil warehouse matches every warehouse.
func NewGetActiveTasksQuery(warehouse *kernel.Warehouse, statuses ...lifecycle.Status) (GetActiveTasksQuery, error) {
	if warehouse != nil {
		if err := warehouse.Validate(); err != nil {
			return GetActiveTasksQuery{}, err
		}
	}
	for _, s := range statuses {
		if err := s.Validate(); err != nil {
			return GetActiveTasksQuery{}, err
		}
	}
	if len(statuses) == 0 {
		statuses = []lifecycle.Status{lifecycle.New, lifecycle.PendingConfirmation}
	}

	copied := make([]lifecycle.Status, len(statuses))
	copy(copied, statuses)
	return GetActiveTasksQuery{warehouse: warehouse, statuses: copied, guard: guard.NewConstructorGuard()}, nil
}

func (q GetActiveTasksQuery) Warehouse() *kernel.Warehouse {
	return q.warehouse
}

func (q GetActiveTasksQuery) Statuses() []lifecycle.Status {
	return q.statuses
}

func (q GetActiveTasksQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveTasksQueryIsNotConstructed)
}
