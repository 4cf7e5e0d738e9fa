// Package taskrepo persists task aggregates and their lines.
package taskrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaskDTO is the row of the tasks table. The seq column is filled by the
// database and only used for ordering.
type TaskDTO struct {
	ID                  uuid.UUID `gorm:"type:uuid;primaryKey"`
	ShipmentID          uuid.UUID `gorm:"type:uuid"`
	Warehouse           string
	Status              int
	CollectorID         *uuid.UUID `gorm:"type:uuid"`
	CheckerID           *uuid.UUID `gorm:"type:uuid"`
	DictatorID          *uuid.UUID `gorm:"type:uuid"`
	Places              int
	StartedAt           *time.Time
	LastProgressAt      *time.Time
	CompletedAt         *time.Time
	ConfirmedAt         *time.Time
	ItemCount           int
	UnitCount           decimal.Decimal `gorm:"type:numeric"`
	TimePerHundredItems time.Duration   `gorm:"column:time_per_hundred_items"`
	CreatedAt           time.Time
	WithdrawnAt         *time.Time
	Lines               []LineDTO `gorm:"foreignKey:TaskID"`
}

func (TaskDTO) TableName() string {
	return "tasks"
}

// LineDTO is the row of the task_lines table.
type LineDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID         uuid.UUID `gorm:"type:uuid"`
	ShipmentLineID uuid.UUID `gorm:"type:uuid"`
	Position       int
	SKU            string           `gorm:"column:sku"`
	Qty            decimal.Decimal  `gorm:"type:numeric"`
	CollectedQty   *decimal.Decimal `gorm:"type:numeric"`
	ConfirmedQty   *decimal.Decimal `gorm:"type:numeric"`
	Checked        bool
	Confirmed      bool
}

func (LineDTO) TableName() string {
	return "task_lines"
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes(raw[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func fromDomain(t *task.Task) TaskDTO {
	lines := make([]LineDTO, 0, len(t.Lines()))
	for i, l := range t.Lines() {
		r := l.Result()
		lines = append(lines, LineDTO{
			ID:             l.ID().Bytes(),
			TaskID:         t.ID().Bytes(),
			ShipmentLineID: l.ShipmentLineID().Bytes(),
			Position:       i,
			SKU:            l.SKU(),
			Qty:            l.Qty(),
			CollectedQty:   r.CollectedQty,
			ConfirmedQty:   r.ConfirmedQty,
			Checked:        r.Checked,
			Confirmed:      r.Confirmed,
		})
	}

	m := t.Metrics()
	return TaskDTO{
		ID:                  t.ID().Bytes(),
		ShipmentID:          t.ShipmentID().Bytes(),
		Warehouse:           t.Warehouse().Code(),
		Status:              int(t.Status()),
		CollectorID:         optionalID(t.CollectorID()),
		CheckerID:           optionalID(t.CheckerID()),
		DictatorID:          optionalID(t.DictatorID()),
		Places:              t.Places(),
		StartedAt:           t.StartedAt(),
		LastProgressAt:      t.LastProgressAt(),
		CompletedAt:         t.CompletedAt(),
		ConfirmedAt:         t.ConfirmedAt(),
		ItemCount:           m.ItemCount,
		UnitCount:           m.UnitCount,
		TimePerHundredItems: m.TimePerHundredItems,
		CreatedAt:           t.CreatedAt(),
		WithdrawnAt:         t.WithdrawnAt(),
		Lines:               lines,
	}
}

func (d TaskDTO) stateColumns() map[string]any {
	return map[string]any{
		"status":                 d.Status,
		"collector_id":           d.CollectorID,
		"checker_id":             d.CheckerID,
		"dictator_id":            d.DictatorID,
		"places":                 d.Places,
		"started_at":             d.StartedAt,
		"last_progress_at":       d.LastProgressAt,
		"completed_at":           d.CompletedAt,
		"confirmed_at":           d.ConfirmedAt,
		"item_count":             d.ItemCount,
		"unit_count":             d.UnitCount,
		"time_per_hundred_items": int64(d.TimePerHundredItems),
		"withdrawn_at":           d.WithdrawnAt,
	}
}

func (d LineDTO) resultColumns() map[string]any {
	return map[string]any{
		"collected_qty": d.CollectedQty,
		"confirmed_qty": d.ConfirmedQty,
		"checked":       d.Checked,
		"confirmed":     d.Confirmed,
	}
}

func toDomain(dto TaskDTO) (*task.Task, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentID, err := kernel.UUIDFromBytes(dto.ShipmentID[:])
	if err != nil {
		return nil, err
	}
	warehouse, err := kernel.NewWarehouse(dto.Warehouse)
	if err != nil {
		return nil, err
	}
	collectorID, err := restoreID(dto.CollectorID)
	if err != nil {
		return nil, err
	}
	checkerID, err := restoreID(dto.CheckerID)
	if err != nil {
		return nil, err
	}
	dictatorID, err := restoreID(dto.DictatorID)
	if err != nil {
		return nil, err
	}

	lines := make([]*task.Line, 0, len(dto.Lines))
	for _, ld := range dto.Lines {
		line, lineErr := lineToDomain(ld)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return task.RestoreTask(task.Snapshot{
		ID:             id,
		ShipmentID:     shipmentID,
		Warehouse:      warehouse,
		Status:         lifecycle.Status(dto.Status),
		Lines:          lines,
		CollectorID:    collectorID,
		CheckerID:      checkerID,
		DictatorID:     dictatorID,
		Places:         dto.Places,
		StartedAt:      dto.StartedAt,
		LastProgressAt: dto.LastProgressAt,
		CompletedAt:    dto.CompletedAt,
		ConfirmedAt:    dto.ConfirmedAt,
		Metrics: task.Metrics{
			ItemCount:           dto.ItemCount,
			UnitCount:           dto.UnitCount,
			TimePerHundredItems: dto.TimePerHundredItems,
		},
		CreatedAt:   dto.CreatedAt,
		WithdrawnAt: dto.WithdrawnAt,
	})
}

func lineToDomain(dto LineDTO) (*task.Line, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	shipmentLineID, err := kernel.UUIDFromBytes(dto.ShipmentLineID[:])
	if err != nil {
		return nil, err
	}
	return task.RestoreLine(id, shipmentLineID, dto.SKU, dto.Qty, shipment.LineResult{
		CollectedQty: dto.CollectedQty,
		ConfirmedQty: dto.ConfirmedQty,
		Checked:      dto.Checked,
		Confirmed:    dto.Confirmed,
	})
}
