package actor

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the closed set of roles issued by the session service.
type Role int

const (
	UnknownRole Role = iota
	Collector
	Checker
	Admin
	Specialist
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Collector:   "collector",
		Checker:     "checker",
		Admin:       "admin",
		Specialist:  "specialist",
	}
}

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for role, str := range getRoleStrings() {
		if role != UnknownRole && str == name {
			return role, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

func (r Role) Validate() error {
	if r <= UnknownRole || r > Specialist {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if str, ok := getRoleStrings()[r]; ok {
		return str
	}
	return "unknown"
}

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
