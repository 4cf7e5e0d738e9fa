// Package lockrepo persists task locks. The unique index on task_id is the
// last line of defence against two writers claiming the same task.
package lockrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/tasklock"

	"github.com/google/uuid"
)

type LockDTO struct {
	TaskID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID `gorm:"type:uuid"`
	LockedAt      time.Time
	LastHeartbeat time.Time
}

func (LockDTO) TableName() string {
	return "task_locks"
}

func fromDomain(l *tasklock.Lock) LockDTO {
	return LockDTO{
		TaskID:        l.TaskID().Bytes(),
		UserID:        l.UserID().Bytes(),
		LockedAt:      l.LockedAt(),
		LastHeartbeat: l.LastHeartbeat(),
	}
}

func toDomain(dto LockDTO) (*tasklock.Lock, error) {
	taskID, err := kernel.UUIDFromBytes(dto.TaskID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	return tasklock.RestoreLock(taskID, userID, dto.LockedAt, dto.LastHeartbeat)
}
