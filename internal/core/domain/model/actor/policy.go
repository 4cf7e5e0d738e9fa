package actor

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// Policy answers role capability questions. The zero value is usable and
// restricts no warehouse.
type Policy struct {
	restricted map[string]Role
}

// NewPolicy builds a policy in which each listed warehouse may only be locked
// by the mapped role or an administrator.
func NewPolicy(restricted map[kernel.Warehouse]Role) (Policy, error) {
	p := Policy{restricted: make(map[string]Role, len(restricted))}
	for w, role := range restricted {
		if err := w.Validate(); err != nil {
			return Policy{}, err
		}
		if err := role.Validate(); err != nil {
			return Policy{}, err
		}
		p.restricted[w.Code()] = role
	}
	return p, nil
}

// ParsePolicy reads a comma separated "warehouse:role" list, e.g. "COLD:specialist,VAULT:specialist".
func ParsePolicy(spec string) (Policy, error) {
	restricted := make(map[kernel.Warehouse]Role)
	for _, entry := range strings.Split(spec, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		code, roleName, ok := strings.Cut(entry, ":")
		if !ok {
			return Policy{}, errs.NewValueIsInvalidErrorWithCause(
				"restricted warehouses",
				fmt.Errorf("%q is not in warehouse:role form", entry),
			)
		}

		w, err := kernel.NewWarehouse(code)
		if err != nil {
			return Policy{}, err
		}
		role, err := ParseRole(roleName)
		if err != nil {
			return Policy{}, err
		}
		restricted[w] = role
	}
	return NewPolicy(restricted)
}

// RequiredRole returns the role a restricted warehouse demands.
func (p Policy) RequiredRole(w kernel.Warehouse) (Role, bool) {
	role, ok := p.restricted[w.Code()]
	return role, ok
}

// CanLock reports whether the role may claim work in the warehouse.
func (p Policy) CanLock(role Role, w kernel.Warehouse) bool {
	if role.Validate() != nil {
		return false
	}
	required, restricted := p.RequiredRole(w)
	if !restricted {
		return true
	}
	return role == Admin || role == required
}

// CanConfirm reports whether the role may write checking results.
func (p Policy) CanConfirm(role Role) bool {
	return role == Checker || role == Admin
}

// CanReset reports whether the role may rewind or delete a shipment.
func (p Policy) CanReset(role Role) bool {
	return role == Admin
}

// CanForceTakeOver reports whether the role may take over a lock that is not idle yet.
func (p Policy) CanForceTakeOver(role Role) bool {
	return role == Admin
}

// CanExport reports whether the role may run ERP export bookkeeping.
func (p Policy) CanExport(role Role) bool {
	return role == Admin
}
