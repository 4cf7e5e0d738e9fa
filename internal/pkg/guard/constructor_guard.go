// Package guard marks values that were produced by their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard is embedded in value objects, commands and aggregates. Its
// zero value fails validation, so a struct literal that skipped the constructor
// is caught before it reaches a repository or a handler.
//
//	type SubmitForReviewCommand struct {
//	    taskID kernel.UUID
//	    guard  guard.ConstructorGuard
//	}
//
//	func (c SubmitForReviewCommand) Validate() error {
//	    return c.guard.Validate(ErrSubmitForReviewCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard that passes validation.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when it is nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
