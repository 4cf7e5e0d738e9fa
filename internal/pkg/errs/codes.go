package errs

import (
	"errors"
	"fmt"
)

// Code is a stable, machine-readable reason attached to forbidden and conflict errors.
// Clients branch on it; the human-readable reason may change freely.
type Code string

const (
	CodeLockedByOther       Code = "LOCKED_BY_OTHER"
	CodeCanTakeOver         Code = "CAN_TAKE_OVER"
	CodeWarehouseRestricted Code = "WAREHOUSE_RESTRICTED"
	CodeNotLockHolder       Code = "NOT_LOCK_HOLDER"
	CodeTakenByOther        Code = "TAKEN_BY_OTHER"
	CodeWrongState          Code = "WRONG_STATE"
	CodeWrongCollector      Code = "WRONG_COLLECTOR"
	CodeWrongChecker        Code = "WRONG_CHECKER"
	CodeForbiddenRole       Code = "FORBIDDEN_ROLE"
	CodeDuplicate           Code = "DUPLICATE"
)

// ForbiddenError reports that the caller's role does not allow the operation.
type ForbiddenError struct {
	Code   Code
	Reason string
	Cause  error
}

func NewForbiddenError(code Code, reason string) *ForbiddenError {
	return &ForbiddenError{
		Code:   code,
		Reason: reason,
	}
}

func NewForbiddenErrorWithCause(code Code, reason string, cause error) *ForbiddenError {
	return &ForbiddenError{
		Code:   code,
		Reason: reason,
		Cause:  cause,
	}
}

func (e *ForbiddenError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %v)", ErrForbidden, e.Code, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ErrForbidden, e.Code, e.Reason)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// ConflictError reports that the current state of an aggregate does not allow
// the requested operation. The caller must re-fetch state and decide.
type ConflictError struct {
	Code   Code
	Reason string
	Cause  error
}

func NewConflictError(code Code, reason string) *ConflictError {
	return &ConflictError{
		Code:   code,
		Reason: reason,
	}
}

func NewConflictErrorWithCause(code Code, reason string, cause error) *ConflictError {
	return &ConflictError{
		Code:   code,
		Reason: reason,
		Cause:  cause,
	}
}

func (e *ConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s (cause: %v)", ErrConflict, e.Code, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConflict, e.Code, e.Reason)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// CodeOf returns the code carried by the first forbidden or conflict error in
// err's chain, or an empty Code.
func CodeOf(err error) Code {
	var conflict *ConflictError
	if errors.As(err, &conflict) {
		return conflict.Code
	}

	var forbidden *ForbiddenError
	if errors.As(err, &forbidden) {
		return forbidden.Code
	}

	return ""
}

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValueIsInvalid) ||
		errors.Is(err, ErrValueIsRequired) ||
		errors.Is(err, ErrValueIsOutOfRange)
}
