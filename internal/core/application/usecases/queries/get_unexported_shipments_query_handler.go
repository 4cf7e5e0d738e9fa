package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetUnexportedShipmentsQueryHandler struct {
	db *gorm.DB
}

func NewGetUnexportedShipmentsQueryHandler(db *gorm.DB) GetUnexportedShipmentsQueryHandler {
	return GetUnexportedShipmentsQueryHandler{db: db}
}

func (h GetUnexportedShipmentsQueryHandler) Handle(
	ctx context.Context,
	query GetUnexportedShipmentsQuery,
) ([]UnexportedShipmentView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			customer,
			places,
			confirmed_at
		FROM shipments
		WHERE status = ?
			AND deleted_at IS NULL
			AND exported_at IS NULL
		ORDER BY confirmed_at, number
		LIMIT ?
	`, int(lifecycle.Processed), query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shipments := make([]UnexportedShipmentView, 0)
	for rows.Next() {
		var (
			view  UnexportedShipmentView
			rawID uuid.UUID
		)
		if err = rows.Scan(&rawID, &view.Number, &view.Customer, &view.Places, &view.ConfirmedAt); err != nil {
			return nil, err
		}
		if view.ID, err = kernel.UUIDFromBytes(rawID[:]); err != nil {
			return nil, err
		}
		shipments = append(shipments, view)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return shipments, nil
}
