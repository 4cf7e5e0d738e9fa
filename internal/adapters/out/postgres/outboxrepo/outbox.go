// Package outboxrepo stores processed-task reports until the points engine
// accepts them.
package outboxrepo

import (
	"context"
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryDTO struct {
	ID           int64     `gorm:"primaryKey;autoIncrement"`
	TaskID       uuid.UUID `gorm:"type:uuid"`
	Payload      string    `gorm:"type:jsonb"`
	Attempts     int
	LastError    *string
	EnqueuedAt   time.Time
	AvailableAt  *time.Time
	DispatchedAt *time.Time
	AbandonedAt  *time.Time
}

func (EntryDTO) TableName() string {
	return "statistics_outbox"
}

// GormStatisticsOutbox implements ports.StatisticsOutbox using GORM.
type GormStatisticsOutbox struct {
	db    *gorm.DB
	clock clock.Clock
}

// NewGormStatisticsOutbox binds the outbox to db. The clock stamps enqueued rows.
func NewGormStatisticsOutbox(db *gorm.DB, clk clock.Clock) *GormStatisticsOutbox {
	return &GormStatisticsOutbox{db: db, clock: clk}
}

func (o *GormStatisticsOutbox) Enqueue(ctx context.Context, report task.Report) error {
	if err := report.TaskID.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return err
	}

	dto := EntryDTO{
		TaskID:     report.TaskID.Bytes(),
		Payload:    string(payload),
		EnqueuedAt: o.clock.Now(),
	}
	return o.db.WithContext(ctx).Create(&dto).Error
}

// Claim locks up to limit deliverable rows with SKIP LOCKED and pushes their
// availability to leaseUntil. Once the claiming transaction commits, the rows
// stay out of other dispatchers' reach until the lease runs out, so delivery
// can happen outside any transaction.
func (o *GormStatisticsOutbox) Claim(
	ctx context.Context,
	limit int,
	now, leaseUntil time.Time,
) ([]ports.OutboxEntry, error) {
	if limit < 1 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	if !leaseUntil.After(now) {
		return nil, errs.NewValueIsInvalidError("leaseUntil")
	}

	var dtos []EntryDTO
	err := o.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("dispatched_at IS NULL AND abandoned_at IS NULL").
		Where("available_at IS NULL OR available_at <= ?", now).
		Order("id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	if len(dtos) == 0 {
		return nil, nil
	}

	ids := make([]int64, 0, len(dtos))
	entries := make([]ports.OutboxEntry, 0, len(dtos))
	for _, dto := range dtos {
		var report task.Report
		if err = json.Unmarshal([]byte(dto.Payload), &report); err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause("outbox payload", err)
		}
		ids = append(ids, dto.ID)
		entries = append(entries, ports.OutboxEntry{
			ID:         dto.ID,
			Report:     report,
			Attempts:   dto.Attempts,
			EnqueuedAt: dto.EnqueuedAt,
		})
	}

	err = o.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id IN ?", ids).
		Update("available_at", leaseUntil).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (o *GormStatisticsOutbox) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	result := o.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ?", id).
		Update("dispatched_at", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox entry", id)
	}
	return nil
}

func (o *GormStatisticsOutbox) MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error {
	return o.recordAttempt(ctx, id, map[string]any{
		"attempts":     gorm.Expr("attempts + 1"),
		"last_error":   reason,
		"available_at": retryAt,
	})
}

func (o *GormStatisticsOutbox) MarkAbandoned(ctx context.Context, id int64, reason string, at time.Time) error {
	return o.recordAttempt(ctx, id, map[string]any{
		"attempts":     gorm.Expr("attempts + 1"),
		"last_error":   reason,
		"abandoned_at": at,
	})
}

func (o *GormStatisticsOutbox) recordAttempt(ctx context.Context, id int64, columns map[string]any) error {
	result := o.db.WithContext(ctx).
		Model(&EntryDTO{}).
		Where("id = ?", id).
		Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("outbox entry", id)
	}
	return nil
}
