// Package errs provides the typed error taxonomy of the fulfillment service.
//
// Every error type follows the same shape:
//   - a sentinel variable (ErrObjectNotFound, ErrForbidden, ErrConflict, ...)
//   - a struct carrying the details
//   - New... and New...WithCause constructors
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The sentinels map onto the four failure classes the core reports:
//   - NotFound:   ErrObjectNotFound
//   - Forbidden:  ErrForbidden (role mismatch, restricted warehouse)
//   - Conflict:   ErrConflict (lock held elsewhere, wrong collector, wrong state)
//   - Validation: ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange
//
// Forbidden and conflict errors also carry a Code that clients branch on.
package errs
