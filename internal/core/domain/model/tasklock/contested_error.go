package tasklock

import (
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ContestedError reports that another user holds the lock. It unwraps to an
// errs.ConflictError so errs.CodeOf and errors.Is(err, errs.ErrConflict) work,
// and it names the holder so the client can show who is working on the task.
type ContestedError struct {
	Holder   kernel.UUID
	LockedAt time.Time
	State    State
	conflict *errs.ConflictError
}

func NewContestedError(code errs.Code, lock *Lock, state State) *ContestedError {
	return &ContestedError{
		Holder:   lock.UserID(),
		LockedAt: lock.LockedAt(),
		State:    state,
		conflict: errs.NewConflictError(
			code,
			fmt.Sprintf("task %s is locked by %s (%s)", lock.TaskID(), lock.UserID(), state),
		),
	}
}

func (e *ContestedError) Error() string {
	return e.conflict.Error()
}

func (e *ContestedError) Unwrap() error {
	return e.conflict
}

// Code returns LOCKED_BY_OTHER, CAN_TAKE_OVER or NOT_LOCK_HOLDER.
func (e *ContestedError) Code() errs.Code {
	return e.conflict.Code
}
