package tasklock

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrLockIsNotConstructed = errors.New("Lock must be created via NewLock or RestoreLock")

// Lock is an exclusive, time-bounded claim of one user on one task.
type Lock struct {
	kernel.EventRecorder

	taskID        kernel.UUID
	userID        kernel.UUID
	lockedAt      time.Time
	lastHeartbeat time.Time

	isConstructed bool
}

// NewLock creates a claim for userID and raises LockAcquired.
func NewLock(taskID, userID kernel.UUID, takeover bool, now time.Time) (*Lock, error) {
	l, err := RestoreLock(taskID, userID, now, now)
	if err != nil {
		return nil, err
	}
	l.Record(Acquired{TaskID: taskID, UserID: userID, Takeover: takeover, At: now})
	return l, nil
}

// RestoreLock rebuilds a persisted lock without raising events.
func RestoreLock(taskID, userID kernel.UUID, lockedAt, lastHeartbeat time.Time) (*Lock, error) {
	if err := errors.Join(taskID.Validate(), userID.Validate()); err != nil {
		return nil, err
	}
	if lockedAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("lockedAt")
	}
	if lastHeartbeat.Before(lockedAt) {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"lastHeartbeat",
			fmt.Errorf("%s is before lockedAt %s", lastHeartbeat, lockedAt),
		)
	}

	return &Lock{
		taskID:        taskID,
		userID:        userID,
		lockedAt:      lockedAt,
		lastHeartbeat: lastHeartbeat,
		isConstructed: true,
	}, nil
}

func (l *Lock) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLockIsNotConstructed
	}
	return nil
}

func (l *Lock) TaskID() kernel.UUID {
	return l.taskID
}

func (l *Lock) UserID() kernel.UUID {
	return l.userID
}

func (l *Lock) LockedAt() time.Time {
	return l.lockedAt
}

func (l *Lock) LastHeartbeat() time.Time {
	return l.lastHeartbeat
}

// IsHeldBy reports whether userID owns the lock.
func (l *Lock) IsHeldBy(userID kernel.UUID) bool {
	return l.userID.IsEqual(userID)
}

// Age is the time elapsed since the lock was created.
func (l *Lock) Age(now time.Time) time.Duration {
	return now.Sub(l.lockedAt)
}

// Heartbeat refreshes the holder's liveness marker. Time never moves backwards.
func (l *Lock) Heartbeat(now time.Time) {
	if now.After(l.lastHeartbeat) {
		l.lastHeartbeat = now
	}
}

// Release raises LockReleased. The caller deletes the row.
func (l *Lock) Release(reason ReleaseReason, by kernel.UUID, now time.Time) {
	event := Released{TaskID: l.taskID, UserID: l.userID, Reason: reason, At: now}
	if !by.IsZero() {
		event.By = &by
	}
	l.Record(event)
}

// RequireHolder rejects writes from anyone but the lock holder with NOT_LOCK_HOLDER.
func RequireHolder(l *Lock, userID kernel.UUID) error {
	if l == nil {
		return errs.NewConflictError(errs.CodeNotLockHolder, "task is not locked")
	}
	if !l.IsHeldBy(userID) {
		return NewContestedError(errs.CodeNotLockHolder, l, StateHeldFresh)
	}
	return nil
}
