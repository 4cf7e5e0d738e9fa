package lifecycle

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// ResetMode selects how far an administrative reset rewinds a shipment.
type ResetMode string

const (
	// ResetCollect reverts every task to New and clears picking results.
	ResetCollect ResetMode = "collect"

	// ResetConfirm reverts processed tasks to PendingConfirmation and clears checking results.
	ResetConfirm ResetMode = "confirm"

	// ResetDelete soft-deletes the shipment after a collect reset.
	ResetDelete ResetMode = "delete"
)

// ParseResetMode validates an externally supplied reset mode.
func ParseResetMode(s string) (ResetMode, error) {
	mode := ResetMode(s)
	if err := mode.Validate(); err != nil {
		return "", err
	}
	return mode, nil
}

func (m ResetMode) Validate() error {
	switch m {
	case ResetCollect, ResetConfirm, ResetDelete:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("reset mode", fmt.Errorf("%q is not supported", string(m)))
	}
}

// ClearsPicking reports whether the mode wipes collected quantities and the collector.
func (m ResetMode) ClearsPicking() bool {
	return m == ResetCollect || m == ResetDelete
}
