package events

import (
	"encoding/json"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// Envelope is the wire shape of a published event.
type Envelope struct {
	Type        string          `json:"type"`
	AggregateID kernel.UUID     `json:"aggregateId"`
	OccurredAt  time.Time       `json:"occurredAt"`
	Payload     json.RawMessage `json:"payload"`
}

func NewEnvelope(event kernel.DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		Type:        event.EventType(),
		AggregateID: event.AggregateID(),
		OccurredAt:  event.OccurredAt(),
		Payload:     payload,
	}, nil
}
