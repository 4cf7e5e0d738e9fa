package task

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// Report is the summary of a processed task handed to the points engine.
type Report struct {
	TaskID                     kernel.UUID     `json:"taskId"`
	ShipmentID                 kernel.UUID     `json:"shipmentId"`
	Warehouse                  string          `json:"warehouse"`
	CollectorID                *kernel.UUID    `json:"collectorId,omitempty"`
	CheckerID                  *kernel.UUID    `json:"checkerId,omitempty"`
	DictatorID                 *kernel.UUID    `json:"dictatorId,omitempty"`
	ItemCount                  int             `json:"itemCount"`
	UnitCount                  decimal.Decimal `json:"unitCount"`
	TimePerHundredItemsSeconds float64         `json:"timePerHundredItemsSeconds"`
	Places                     int             `json:"places"`
	CompletedAt                *time.Time      `json:"completedAt,omitempty"`
	ConfirmedAt                time.Time       `json:"confirmedAt"`
}

// Report summarises a processed task.
func (t *Task) Report() (Report, error) {
	if t.status != lifecycle.Processed || t.confirmedAt == nil {
		return Report{}, errs.NewConflictError(
			errs.CodeWrongState,
			fmt.Sprintf("task %s is %s, only processed tasks are reported", t.id, t.status),
		)
	}

	return Report{
		TaskID:                     t.id,
		ShipmentID:                 t.shipmentID,
		Warehouse:                  t.warehouse.Code(),
		CollectorID:                t.collectorID,
		CheckerID:                  t.checkerID,
		DictatorID:                 t.dictatorID,
		ItemCount:                  t.metrics.ItemCount,
		UnitCount:                  t.metrics.UnitCount,
		TimePerHundredItemsSeconds: t.metrics.TimePerHundredItems.Seconds(),
		Places:                     t.places,
		CompletedAt:                t.completedAt,
		ConfirmedAt:                *t.confirmedAt,
	}, nil
}
