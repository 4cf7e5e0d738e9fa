package lifecycle

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status is the lifecycle state of a task or a shipment.
type Status int

const (
	// Unknown catches uninitialized values.
	Unknown Status = iota

	// New is the initial status: picking has not been submitted yet.
	New

	// PendingConfirmation means picking is done and a checker has to verify it.
	PendingConfirmation

	// Processed means checking is done. Terminal in normal flow.
	Processed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:             "Unknown",
		New:                 "New",
		PendingConfirmation: "PendingConfirmation",
		Processed:           "Processed",
	}
}

func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		New:                 "New",
		PendingConfirmation: "PendingConfirmation",
		Processed:           "Processed",
	}
}

// ParseStatus converts the external name of a status back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getValidStatusStrings() {
		if name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate returns an error for Unknown and out-of-range values.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// MarshalText renders the status by name in API payloads and events.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsAtLeast reports whether s is at or past other in the forward flow.
func (s Status) IsAtLeast(other Status) bool {
	return s.Validate() == nil && s >= other
}

// Submit moves picking work to PendingConfirmation. Only New can be submitted.
func (s Status) Submit() (Status, error) {
	if s != New {
		return Unknown, wrongState(s, "submit for review")
	}
	return PendingConfirmation, nil
}

// Confirm moves checked work to Processed. Only PendingConfirmation can be confirmed.
func (s Status) Confirm() (Status, error) {
	if s != PendingConfirmation {
		return Unknown, wrongState(s, "confirm")
	}
	return Processed, nil
}

// ValidatePicking checks that collected quantities may still be written.
func (s Status) ValidatePicking() error {
	if s != New {
		return wrongState(s, "save picking progress")
	}
	return nil
}

// ValidateChecking checks that confirmed quantities may still be written.
func (s Status) ValidateChecking() error {
	if s != PendingConfirmation {
		return wrongState(s, "save confirmation progress")
	}
	return nil
}

// ValidateLockable checks that the work can still be claimed by a worker.
func (s Status) ValidateLockable() error {
	if s != New && s != PendingConfirmation {
		return wrongState(s, "lock")
	}
	return nil
}

func wrongState(s Status, action string) error {
	return errs.NewConflictError(errs.CodeWrongState, fmt.Sprintf("cannot %s a task in status %s", action, s))
}
