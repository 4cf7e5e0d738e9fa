// Package actor models the authenticated caller of every operation: a user
// identifier plus one role from a closed set. Capability checks are answered by
// Policy, which also knows which warehouses require a specialised role.
package actor
