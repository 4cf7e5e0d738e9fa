// Package kernel holds the value objects shared by every fulfillment aggregate:
// UUID identifiers, warehouse codes, and the DomainEvent contract with the
// EventRecorder that aggregates embed to raise events.
//
// All value objects reject their zero value in Validate, so an identifier or a
// warehouse that skipped its constructor cannot reach a repository.
package kernel
