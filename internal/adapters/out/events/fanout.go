package events

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// Fanout hands every batch to all of its notifiers.
type Fanout []ports.EventNotifier

func NewFanout(notifiers ...ports.EventNotifier) Fanout {
	out := make(Fanout, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (f Fanout) Notify(ctx context.Context, events ...kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	var failures []error
	for _, n := range f {
		if err := n.Notify(ctx, events...); err != nil {
			failures = append(failures, err)
		}
	}
	return errors.Join(failures...)
}
