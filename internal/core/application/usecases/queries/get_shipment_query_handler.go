package queries

import (
	"context"
	"database/sql"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetShipmentQueryHandler reads a non-deleted shipment. Missing or deleted
// shipments yield ObjectNotFoundError.
type GetShipmentQueryHandler struct {
	db *gorm.DB
}

func NewGetShipmentQueryHandler(db *gorm.DB) GetShipmentQueryHandler {
	return GetShipmentQueryHandler{db: db}
}

func (h GetShipmentQueryHandler) Handle(ctx context.Context, query GetShipmentQuery) (*ShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	view, err := h.header(ctx, query.ShipmentID())
	if err != nil {
		return nil, err
	}
	if view.Lines, err = h.lines(ctx, query.ShipmentID()); err != nil {
		return nil, err
	}
	if view.Tasks, err = h.tasks(ctx, query.ShipmentID()); err != nil {
		return nil, err
	}
	return view, nil
}

func (h GetShipmentQueryHandler) header(ctx context.Context, id kernel.UUID) (*ShipmentView, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			customer,
			destination,
			region,
			weight,
			places,
			comment,
			status,
			created_at,
			confirmed_at,
			exported_at
		FROM shipments
		WHERE id = ? AND deleted_at IS NULL
	`, id.Bytes()).Row()

	var (
		view                    ShipmentView
		rawID                   uuid.UUID
		status                  int
		confirmedAt, exportedAt sql.NullTime
	)
	err := row.Scan(
		&rawID,
		&view.Number,
		&view.Customer,
		&view.Destination,
		&view.Region,
		&view.Weight,
		&view.Places,
		&view.Comment,
		&status,
		&view.CreatedAt,
		&confirmedAt,
		&exportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.NewObjectNotFoundError("shipment", id.String())
	}
	if err != nil {
		return nil, err
	}

	if view.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
		return nil, err
	}
	view.Status = lifecycle.Status(status)
	view.ConfirmedAt = nullableTime(confirmedAt)
	view.ExportedAt = nullableTime(exportedAt)
	return &view, nil
}

func (h GetShipmentQueryHandler) lines(ctx context.Context, id kernel.UUID) ([]ShipmentLineView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			sku,
			name,
			qty,
			uom,
			warehouse,
			location,
			secondary_code,
			collected_qty,
			confirmed_qty,
			checked,
			confirmed
		FROM shipment_lines
		WHERE shipment_id = ?
		ORDER BY position
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]ShipmentLineView, 0)
	for rows.Next() {
		var (
			line                    ShipmentLineView
			rawID                   uuid.UUID
			collected, confirmedQty decimal.NullDecimal
		)
		err = rows.Scan(
			&rawID,
			&line.SKU,
			&line.Name,
			&line.Qty,
			&line.UOM,
			&line.Warehouse,
			&line.Location,
			&line.SecondaryCode,
			&collected,
			&confirmedQty,
			&line.Checked,
			&line.Confirmed,
		)
		if err != nil {
			return nil, err
		}

		if line.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
			return nil, err
		}
		line.CollectedQty = nullableDecimal(collected)
		line.ConfirmedQty = nullableDecimal(confirmedQty)
		lines = append(lines, line)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (h GetShipmentQueryHandler) tasks(ctx context.Context, id kernel.UUID) ([]TaskView, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN shipments s ON s.id = t.shipment_id
		LEFT JOIN task_locks l ON l.task_id = t.id
		WHERE t.shipment_id = ?
		ORDER BY t.seq
	`, id.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]TaskView, 0)
	for rows.Next() {
		view, scanErr := scanTask(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		tasks = append(tasks, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

func nullableDecimal(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
