package tasklock

// State is the derived situation of a task lock relative to a caller.
type State int

const (
	StateFree State = iota
	StateHeldByCaller
	StateHeldFresh
	StateHeldIdleNoProgress
	StateHeldIdleWithProgress
	StateHardExpired
)

func (s State) String() string {
	switch s {
	case StateFree:
		return "Free"
	case StateHeldByCaller:
		return "HeldByCaller"
	case StateHeldFresh:
		return "HeldFresh"
	case StateHeldIdleNoProgress:
		return "HeldIdleNoProgress"
	case StateHeldIdleWithProgress:
		return "HeldIdleWithProgress"
	case StateHardExpired:
		return "HardExpired"
	default:
		return "Unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// IsIdle reports whether the holder stopped working long enough for anyone to take over.
func (s State) IsIdle() bool {
	return s == StateHeldIdleNoProgress || s == StateHeldIdleWithProgress
}
