package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetActiveTasksQueryHandler lists tasks ordered by shipment intake and split order.
type GetActiveTasksQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveTasksQueryHandler(db *gorm.DB) GetActiveTasksQueryHandler {
	return GetActiveTasksQueryHandler{db: db}
}

func (h GetActiveTasksQueryHandler) Handle(ctx context.Context, query GetActiveTasksQuery) ([]TaskView, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := make([]int64, 0, len(query.Statuses()))
	for _, s := range query.Statuses() {
		statuses = append(statuses, int64(s))
	}
	warehouse := ""
	if w := query.Warehouse(); w != nil {
		warehouse = w.Code()
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+taskColumns+`
		FROM tasks t
		JOIN shipments s ON s.id = t.shipment_id
		LEFT JOIN task_locks l ON l.task_id = t.id
		WHERE s.deleted_at IS NULL
			AND t.status = ANY(?)
			AND (? = '' OR t.warehouse = ?)
		ORDER BY s.created_at, t.seq
	`, pq.Array(statuses), warehouse, warehouse).Rows()
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
