package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/pkg/errs"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestNewRedisPublisher_RequiresClient(t *testing.T) {
	_, err := events.NewRedisPublisher(nil, "x")

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestRedisPublisher_Notify_PublishesEnvelopes(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	_, client := newRedis(t)

	sub := client.Subscribe(ctx, "terminals")
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher, err := events.NewRedisPublisher(client, "terminals")
	require.NoError(t, err)
	first, second := acquired(), acquired()

	require.NoError(t, publisher.Notify(ctx, first, second))

	for _, want := range []tasklock.Acquired{first, second} {
		msg, recvErr := sub.ReceiveMessage(ctx)
		require.NoError(t, recvErr)

		var envelope events.Envelope
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &envelope))
		assert.Equal(t, tasklock.EventAcquired, envelope.Type)
		assert.Equal(t, want.TaskID, envelope.AggregateID)
		assert.True(t, t0.Equal(envelope.OccurredAt))

		var payload tasklock.Acquired
		require.NoError(t, json.Unmarshal(envelope.Payload, &payload))
		assert.Equal(t, want.UserID, payload.UserID)
	}
}

func TestRedisPublisher_Notify_DefaultChannel(t *testing.T) {
	ctx, cancel := context.WithTimeout(t.Context(), 5*time.Second)
	defer cancel()
	_, client := newRedis(t)

	sub := client.Subscribe(ctx, events.DefaultChannel)
	defer sub.Close()
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	publisher, err := events.NewRedisPublisher(client, "")
	require.NoError(t, err)
	require.NoError(t, publisher.Notify(ctx, acquired()))

	_, err = sub.ReceiveMessage(ctx)
	require.NoError(t, err)
}

func TestRedisPublisher_Notify_ServerDown_ReturnsError(t *testing.T) {
	mr, client := newRedis(t)
	publisher, err := events.NewRedisPublisher(client, "terminals")
	require.NoError(t, err)
	require.NoError(t, publisher.Ping(t.Context()))

	mr.Close()

	require.Error(t, publisher.Notify(t.Context(), acquired()))
	require.Error(t, publisher.Ping(t.Context()))
}
