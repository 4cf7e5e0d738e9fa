package events_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type blockingNotifier struct {
	started chan struct{}
	release chan struct{}
}

func (b *blockingNotifier) Notify(context.Context, ...kernel.DomainEvent) error {
	b.started <- struct{}{}
	<-b.release
	return nil
}

func TestAsyncNotifier_DeliversInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &recorder{}
	notifier := events.NewAsyncNotifier(next, 8, discardLogger())
	first, second := acquired(), acquired()

	require.NoError(t, notifier.Notify(t.Context(), first))
	require.NoError(t, notifier.Notify(t.Context(), second))
	require.NoError(t, notifier.Notify(t.Context()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, notifier.Close(ctx))

	batches := next.Batches()
	require.Len(t, batches, 2)
	assert.Equal(t, first, batches[0][0])
	assert.Equal(t, second, batches[1][0])
}

func TestAsyncNotifier_FullQueue_DropsBatch(t *testing.T) {
	defer goleak.VerifyNone(t)

	next := &blockingNotifier{started: make(chan struct{}, 1), release: make(chan struct{})}
	notifier := events.NewAsyncNotifier(next, 1, discardLogger())

	require.NoError(t, notifier.Notify(t.Context(), acquired()))
	<-next.started
	require.NoError(t, notifier.Notify(t.Context(), acquired()))

	err := notifier.Notify(t.Context(), acquired())

	require.ErrorIs(t, err, events.ErrQueueFull)

	close(next.release)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, notifier.Close(ctx))
}

func TestAsyncNotifier_AfterClose_Rejects(t *testing.T) {
	defer goleak.VerifyNone(t)

	notifier := events.NewAsyncNotifier(&recorder{}, 1, discardLogger())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, notifier.Close(ctx))
	require.NoError(t, notifier.Close(ctx))

	err := notifier.Notify(t.Context(), acquired())

	require.ErrorIs(t, err, events.ErrNotifierClosed)
}
