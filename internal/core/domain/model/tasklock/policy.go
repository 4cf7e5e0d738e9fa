package tasklock

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	DefaultHardTTL          = 30 * time.Minute
	DefaultIdleNoProgress   = 5 * time.Minute
	DefaultIdleWithProgress = 15 * time.Minute
)

// Policy holds the thresholds used to classify a held lock.
type Policy struct {
	hardTTL          time.Duration
	idleNoProgress   time.Duration
	idleWithProgress time.Duration
}

// NewPolicy validates the thresholds: all positive and both idle limits below the hard TTL.
func NewPolicy(hardTTL, idleNoProgress, idleWithProgress time.Duration) (Policy, error) {
	if hardTTL <= 0 {
		return Policy{}, errs.NewValueIsOutOfRangeError("hard TTL", hardTTL, "1ns", "unbounded")
	}
	if idleNoProgress <= 0 || idleNoProgress >= hardTTL {
		return Policy{}, errs.NewValueIsOutOfRangeError("idle without progress", idleNoProgress, "1ns", hardTTL)
	}
	if idleWithProgress <= 0 || idleWithProgress >= hardTTL {
		return Policy{}, errs.NewValueIsOutOfRangeError("idle with progress", idleWithProgress, "1ns", hardTTL)
	}

	return Policy{
		hardTTL:          hardTTL,
		idleNoProgress:   idleNoProgress,
		idleWithProgress: idleWithProgress,
	}, nil
}

// DefaultPolicy returns 30m hard TTL, 5m idle without progress, 15m idle with progress.
func DefaultPolicy() Policy {
	return Policy{
		hardTTL:          DefaultHardTTL,
		idleNoProgress:   DefaultIdleNoProgress,
		idleWithProgress: DefaultIdleWithProgress,
	}
}

func (p Policy) HardTTL() time.Duration          { return p.hardTTL }
func (p Policy) IdleNoProgress() time.Duration   { return p.idleNoProgress }
func (p Policy) IdleWithProgress() time.Duration { return p.idleWithProgress }

// Activity is the progress history of the locked task.
type Activity struct {
	StartedAt      *time.Time
	LastProgressAt *time.Time
}

// Evaluate classifies lock from the point of view of caller at now.
//
// Hard expiry is checked first, then idleness. For a started task idleness is
// measured from the later of the last progress write and the lock creation, so
// a lock that was just taken over does not inherit the previous holder's idle time
// (see TestPolicy_Evaluate_IdlenessAfterTakeover).
// Heartbeats prove liveness of the client only and do not postpone idleness.
func (p Policy) Evaluate(lock *Lock, caller kernel.UUID, activity Activity, now time.Time) State {
	switch {
	case lock == nil:
		return StateFree
	case lock.IsHeldBy(caller):
		return StateHeldByCaller
	case lock.Age(now) >= p.hardTTL:
		return StateHardExpired
	}

	if activity.StartedAt == nil {
		if lock.Age(now) >= p.idleNoProgress {
			return StateHeldIdleNoProgress
		}
		return StateHeldFresh
	}

	reference := lock.LockedAt()
	if activity.LastProgressAt != nil && activity.LastProgressAt.After(reference) {
		reference = *activity.LastProgressAt
	}
	if now.Sub(reference) >= p.idleWithProgress {
		return StateHeldIdleWithProgress
	}
	return StateHeldFresh
}
