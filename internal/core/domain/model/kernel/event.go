package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate while it changes state.
// Events are collected by the unit of work and handed to the notifier
// only after the transaction commits.
type DomainEvent interface {
	EventType() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventRecorder is embedded into aggregates that raise domain events.
// It is not safe for concurrent use; aggregates are confined to one unit of work.
type EventRecorder struct {
	events []DomainEvent
}

// Record appends an event to the pending list.
func (r *EventRecorder) Record(event DomainEvent) {
	r.events = append(r.events, event)
}

// PendingEvents returns the recorded events without clearing them.
func (r *EventRecorder) PendingEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

// PullEvents returns the recorded events and clears the list.
func (r *EventRecorder) PullEvents() []DomainEvent {
	out := r.events
	r.events = nil
	return out
}
