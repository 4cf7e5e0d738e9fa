// Package tasklock models the exclusive claim a worker holds on a task.
//
// A Lock row exists per claimed task (at most one, enforced by a unique index).
// Its state relative to a caller is derived, never stored, by Policy.Evaluate:
//
//	Free                  no lock
//	HeldByCaller          the caller already holds it
//	HardExpired           older than HardTTL, taken over without confirmation
//	HeldIdleNoProgress    task never started and lock older than IdleNoProgress
//	HeldIdleWithProgress  no progress written for IdleWithProgress
//	HeldFresh             anything else
//
// Expiry is lazy: nothing sweeps locks in the background, the next competing
// request evaluates them.
package tasklock
