// Package lifecycle defines the status shared by shipment tasks and shipments
// and the reset modes an administrator may apply to them.
//
// Normal flow only moves forward:
//
//	New ──Submit──> PendingConfirmation ──Confirm──> Processed
//
// Going back is possible only through an explicit administrative reset.
package lifecycle
