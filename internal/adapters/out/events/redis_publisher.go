package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// DefaultChannel is the pub/sub channel terminals subscribe to.
const DefaultChannel = "fulfillment.events"

// RedisPublisher publishes every event as an Envelope on one channel.
type RedisPublisher struct {
	client  redis.UniversalClient
	channel string
}

func NewRedisPublisher(client redis.UniversalClient, channel string) (*RedisPublisher, error) {
	if client == nil {
		return nil, errs.NewValueIsRequiredError("redis client")
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{client: client, channel: channel}, nil
}

// Notify publishes events in order. A failing event does not stop the rest
// of the batch; all failures are returned joined.
func (p *RedisPublisher) Notify(ctx context.Context, events ...kernel.DomainEvent) error {
	var failures []error
	for _, event := range events {
		envelope, err := NewEnvelope(event)
		if err != nil {
			failures = append(failures, fmt.Errorf("encode %s: %w", event.EventType(), err))
			continue
		}
		body, err := json.Marshal(envelope)
		if err != nil {
			failures = append(failures, fmt.Errorf("encode %s: %w", event.EventType(), err))
			continue
		}
		if err = p.client.Publish(ctx, p.channel, body).Err(); err != nil {
			failures = append(failures, fmt.Errorf("publish %s: %w", event.EventType(), err))
		}
	}
	return errors.Join(failures...)
}

// Ping reports whether Redis is reachable.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
