// Package task provides the ShipmentTask aggregate: a warehouse-scoped,
// size-bounded slice of a shipment that one collector picks and one checker
// verifies.
//
// Every mutation takes an explicit input struct so that each written field has
// an obvious source:
//
//	ClaimCollection   lock acquisition designates or replaces the collector
//	SaveProgress      collector writes collected quantities (status New)
//	SubmitForReview   collector finishes picking       New -> PendingConfirmation
//	SaveChecking      checker writes confirmed quantities (PendingConfirmation)
//	Confirm           checker finishes checking        PendingConfirmation -> Processed
//	Reset             administrator rewinds the task
//
// Identity conflicts are reported as errs.ConflictError with the codes
// TAKEN_BY_OTHER, WRONG_COLLECTOR and WRONG_CHECKER; status conflicts carry
// WRONG_STATE.
package task
