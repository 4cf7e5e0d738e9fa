package lockrepo

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/adapters/out/postgres/pgerr"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const taskConstraint = "task_locks_task_uniq"

// GormLockRepository implements ports.LockRepository using GORM.
type GormLockRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormLockRepository(db *gorm.DB, tracker aggregateTracker) *GormLockRepository {
	return &GormLockRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormLockRepository) Find(ctx context.Context, taskID kernel.UUID) (*tasklock.Lock, error) {
	if err := taskID.Validate(); err != nil {
		return nil, err
	}

	var dto LockDTO
	err := r.db.WithContext(ctx).First(&dto, "task_id = ?", taskID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return toDomain(dto)
}

func (r *GormLockRepository) Add(ctx context.Context, lock *tasklock.Lock) error {
	if err := lock.Validate(); err != nil {
		return err
	}

	dto := fromDomain(lock)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err, taskConstraint) {
			return errs.NewConflictErrorWithCause(
				errs.CodeLockedByOther,
				fmt.Sprintf("task %s was locked concurrently", lock.TaskID()),
				err,
			)
		}
		return err
	}

	r.tracker.TrackAggregate(lock.TaskID(), lock)
	return nil
}

// Update stores the heartbeat of the current holder.
func (r *GormLockRepository) Update(ctx context.Context, lock *tasklock.Lock) error {
	if err := lock.Validate(); err != nil {
		return err
	}

	dto := fromDomain(lock)
	result := r.db.WithContext(ctx).
		Model(&LockDTO{}).
		Where("task_id = ? AND user_id = ?", dto.TaskID, dto.UserID).
		Update("last_heartbeat", dto.LastHeartbeat)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("lock", lock.TaskID().String())
	}

	r.tracker.TrackAggregate(lock.TaskID(), lock)
	return nil
}

// Delete removes the row of the given holder. A row that already disappeared
// is not an error.
func (r *GormLockRepository) Delete(ctx context.Context, lock *tasklock.Lock) error {
	if err := lock.Validate(); err != nil {
		return err
	}

	dto := fromDomain(lock)
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", dto.TaskID, dto.UserID).
		Delete(&LockDTO{}).Error
	if err != nil {
		return err
	}

	r.tracker.TrackAggregate(lock.TaskID(), lock)
	return nil
}

func (r *GormLockRepository) ListByTasks(ctx context.Context, taskIDs []kernel.UUID) ([]*tasklock.Lock, error) {
	locks := make([]*tasklock.Lock, 0)
	if len(taskIDs) == 0 {
		return locks, nil
	}

	ids := make([]uuid.UUID, 0, len(taskIDs))
	for _, id := range taskIDs {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		ids = append(ids, id.Bytes())
	}

	var dtos []LockDTO
	if err := r.db.WithContext(ctx).Where("task_id IN ?", ids).Order("locked_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		l, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, nil
}
