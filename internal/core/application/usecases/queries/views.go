// Package queries contains read operations for retrieving system state.
// Queries run raw SQL over *gorm.DB and return read models shaped for the
// HTTP surface; they never load aggregates.
package queries

import (
	"database/sql"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LockView describes who holds a task and since when.
type LockView struct {
	UserID        kernel.UUID `json:"userId"`
	LockedAt      time.Time   `json:"lockedAt"`
	LastHeartbeat time.Time   `json:"lastHeartbeat"`
}

// TaskView is the read model of a task with its current lock.
type TaskView struct {
	ID             kernel.UUID      `json:"id"`
	ShipmentID     kernel.UUID      `json:"shipmentId"`
	ShipmentNumber string           `json:"shipmentNumber"`
	Warehouse      string           `json:"warehouse"`
	Status         lifecycle.Status `json:"status"`
	CollectorID    *kernel.UUID     `json:"collectorId,omitempty"`
	CheckerID      *kernel.UUID     `json:"checkerId,omitempty"`
	LineCount      int              `json:"lineCount"`
	StartedAt      *time.Time       `json:"startedAt,omitempty"`
	CompletedAt    *time.Time       `json:"completedAt,omitempty"`
	ConfirmedAt    *time.Time       `json:"confirmedAt,omitempty"`
	Lock           *LockView        `json:"lock,omitempty"`
}

// ShipmentLineView is one line of a shipment with its picking and checking results.
type ShipmentLineView struct {
	ID            kernel.UUID      `json:"id"`
	SKU           string           `json:"sku"`
	Name          string           `json:"name"`
	Qty           decimal.Decimal  `json:"qty"`
	UOM           string           `json:"uom,omitempty"`
	Warehouse     string           `json:"warehouse"`
	Location      string           `json:"location,omitempty"`
	SecondaryCode string           `json:"secondaryCode,omitempty"`
	CollectedQty  *decimal.Decimal `json:"collectedQty,omitempty"`
	ConfirmedQty  *decimal.Decimal `json:"confirmedQty,omitempty"`
	Checked       bool             `json:"checked"`
	Confirmed     bool             `json:"confirmed"`
}

// ShipmentView is the full read model of a shipment.
type ShipmentView struct {
	ID          kernel.UUID        `json:"id"`
	Number      string             `json:"number"`
	Customer    string             `json:"customer"`
	Destination string             `json:"destination,omitempty"`
	Region      string             `json:"region,omitempty"`
	Weight      decimal.Decimal    `json:"weight"`
	Places      int                `json:"places"`
	Comment     string             `json:"comment,omitempty"`
	Status      lifecycle.Status   `json:"status"`
	CreatedAt   time.Time          `json:"createdAt"`
	ConfirmedAt *time.Time         `json:"confirmedAt,omitempty"`
	ExportedAt  *time.Time         `json:"exportedAt,omitempty"`
	Lines       []ShipmentLineView `json:"lines"`
	Tasks       []TaskView         `json:"tasks"`
}

// taskColumns is shared by every query returning TaskView rows. It expects
// tasks as t, shipments as s and task_locks as l.
const taskColumns = `
	t.id,
	t.shipment_id,
	s.number,
	t.warehouse,
	t.status,
	t.collector_id,
	t.checker_id,
	(SELECT count(*) FROM task_lines tl WHERE tl.task_id = t.id),
	t.started_at,
	t.completed_at,
	t.confirmed_at,
	l.user_id,
	l.locked_at,
	l.last_heartbeat`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(rows rowScanner) (TaskView, error) {
	var (
		view                           TaskView
		id, shipmentID                 uuid.UUID
		status                         int
		collectorID, checkerID, lockBy uuid.NullUUID
		startedAt, completedAt, confAt sql.NullTime
		lockedAt, lastHeartbeat        sql.NullTime
	)

	err := rows.Scan(
		&id,
		&shipmentID,
		&view.ShipmentNumber,
		&view.Warehouse,
		&status,
		&collectorID,
		&checkerID,
		&view.LineCount,
		&startedAt,
		&completedAt,
		&confAt,
		&lockBy,
		&lockedAt,
		&lastHeartbeat,
	)
	if err != nil {
		return TaskView{}, err
	}

	if view.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return TaskView{}, err
	}
	if view.ShipmentID, err = kernel.UUIDFromBytes(shipmentID[:]); err != nil {
		return TaskView{}, err
	}
	view.Status = lifecycle.Status(status)
	if view.CollectorID, err = nullableID(collectorID); err != nil {
		return TaskView{}, err
	}
	if view.CheckerID, err = nullableID(checkerID); err != nil {
		return TaskView{}, err
	}
	view.StartedAt = nullableTime(startedAt)
	view.CompletedAt = nullableTime(completedAt)
	view.ConfirmedAt = nullableTime(confAt)

	if lockBy.Valid {
		holder, idErr := kernel.UUIDFromBytes(lockBy.UUID[:])
		if idErr != nil {
			return TaskView{}, idErr
		}
		view.Lock = &LockView{
			UserID:        holder,
			LockedAt:      lockedAt.Time,
			LastHeartbeat: lastHeartbeat.Time,
		}
	}
	return view, nil
}

func nullableID(id uuid.NullUUID) (*kernel.UUID, error) {
	if !id.Valid {
		return nil, nil
	}
	out, err := kernel.UUIDFromBytes(id.UUID[:])
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
