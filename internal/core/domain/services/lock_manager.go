package services

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/errs"
)

// AcquireOutcome tells how an acquisition succeeded.
type AcquireOutcome int

const (
	// OutcomeGranted means the task was free and a new lock was created.
	OutcomeGranted AcquireOutcome = iota + 1
	// OutcomeRefreshed means the caller already held the lock; only the heartbeat moved.
	OutcomeRefreshed
	// OutcomeTakenOver means another user's lock was replaced by the caller's.
	OutcomeTakenOver
)

func (o AcquireOutcome) String() string {
	switch o {
	case OutcomeGranted:
		return "granted"
	case OutcomeRefreshed:
		return "refreshed"
	case OutcomeTakenOver:
		return "taken_over"
	default:
		return "unknown"
	}
}

// AcquireRequest is everything the lock manager needs to decide one acquisition.
type AcquireRequest struct {
	Task            *task.Task
	Current         *tasklock.Lock
	Actor           actor.Actor
	ConfirmTakeOver bool
	Now             time.Time
}

// AcquireDecision is the result of a successful acquisition.
type AcquireDecision struct {
	Outcome AcquireOutcome
	// Lock is the lock now held by the caller: new (insert) or refreshed (update).
	Lock *tasklock.Lock
	// Replaced is the previous holder's lock that must be deleted on takeover.
	Replaced *tasklock.Lock
	// Observed is the state the existing lock was in when the request arrived.
	Observed tasklock.State
	// CollectorChanged is set when the task's collector was designated or replaced.
	CollectorChanged bool
}

// LockManager serializes access to a task between competing workers.
//
// Acquire rules, evaluated in order:
//   - a restricted warehouse admits only its role and administrators (WAREHOUSE_RESTRICTED)
//   - a processed task, or one of a deleted shipment, cannot be locked (WRONG_STATE)
//   - Free: a new lock is created
//   - HeldByCaller: the heartbeat is refreshed
//   - HardExpired: taken over without confirmation
//   - HeldFresh: administrators only, and only with confirmation (CAN_TAKE_OVER first);
//     everybody else gets LOCKED_BY_OTHER
//   - idle: anyone, with confirmation (CAN_TAKE_OVER first)
//
// On every grant or takeover of a New task the caller becomes the collector
// (replacing the previous one on takeover).
type LockManager struct {
	locks tasklock.Policy
	roles actor.Policy
}

func NewLockManager(locks tasklock.Policy, roles actor.Policy) LockManager {
	return LockManager{locks: locks, roles: roles}
}

// Acquire decides a lock request and applies its effects to the task and locks.
// Persisting the decision is left to the caller.
func (m LockManager) Acquire(req AcquireRequest) (AcquireDecision, error) {
	if err := errors.Join(req.Task.Validate(), req.Actor.Validate()); err != nil {
		return AcquireDecision{}, err
	}
	if !m.roles.CanLock(req.Actor.Role(), req.Task.Warehouse()) {
		required, _ := m.roles.RequiredRole(req.Task.Warehouse())
		return AcquireDecision{}, errs.NewForbiddenError(
			errs.CodeWarehouseRestricted,
			fmt.Sprintf("warehouse %s requires role %s", req.Task.Warehouse(), required),
		)
	}
	if err := req.Task.EnsureActive(); err != nil {
		return AcquireDecision{}, err
	}
	if err := req.Task.Status().ValidateLockable(); err != nil {
		return AcquireDecision{}, err
	}

	state := m.locks.Evaluate(req.Current, req.Actor.UserID(), tasklock.Activity{
		StartedAt:      req.Task.StartedAt(),
		LastProgressAt: req.Task.LastProgressAt(),
	}, req.Now)

	switch state {
	case tasklock.StateFree:
		return m.grant(req, state, OutcomeGranted)

	case tasklock.StateHeldByCaller:
		req.Current.Heartbeat(req.Now)
		changed, err := req.Task.ClaimCollection(task.ClaimInput{UserID: req.Actor.UserID(), Now: req.Now})
		if err != nil {
			return AcquireDecision{}, err
		}
		return AcquireDecision{
			Outcome:          OutcomeRefreshed,
			Lock:             req.Current,
			Observed:         state,
			CollectorChanged: changed,
		}, nil

	case tasklock.StateHardExpired:
		return m.grant(req, state, OutcomeTakenOver)

	case tasklock.StateHeldFresh:
		if !m.roles.CanForceTakeOver(req.Actor.Role()) {
			return AcquireDecision{}, tasklock.NewContestedError(errs.CodeLockedByOther, req.Current, state)
		}
		fallthrough

	default:
		if !req.ConfirmTakeOver {
			return AcquireDecision{}, tasklock.NewContestedError(errs.CodeCanTakeOver, req.Current, state)
		}
		return m.grant(req, state, OutcomeTakenOver)
	}
}

func (m LockManager) grant(req AcquireRequest, state tasklock.State, outcome AcquireOutcome) (AcquireDecision, error) {
	takeover := outcome == OutcomeTakenOver

	lock, err := tasklock.NewLock(req.Task.ID(), req.Actor.UserID(), takeover, req.Now)
	if err != nil {
		return AcquireDecision{}, err
	}
	changed, err := req.Task.ClaimCollection(task.ClaimInput{
		UserID:  req.Actor.UserID(),
		Replace: takeover,
		Now:     req.Now,
	})
	if err != nil {
		return AcquireDecision{}, err
	}

	decision := AcquireDecision{
		Outcome:          outcome,
		Lock:             lock,
		Observed:         state,
		CollectorChanged: changed,
	}
	if takeover {
		req.Current.Release(tasklock.ReasonTakenOver, req.Actor.UserID(), req.Now)
		decision.Replaced = req.Current
	}
	return decision, nil
}

// Release decides whether the actor may drop the lock. It returns the lock to
// delete, or nil when the task is already free. Only the holder or an
// administrator may release (NOT_LOCK_HOLDER otherwise).
func (m LockManager) Release(current *tasklock.Lock, a actor.Actor, now time.Time) (*tasklock.Lock, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if current == nil {
		return nil, nil
	}
	if !current.IsHeldBy(a.UserID()) && !m.roles.CanForceTakeOver(a.Role()) {
		return nil, tasklock.NewContestedError(errs.CodeNotLockHolder, current, tasklock.StateHeldFresh)
	}

	current.Release(tasklock.ReasonReleased, a.UserID(), now)
	return current, nil
}
