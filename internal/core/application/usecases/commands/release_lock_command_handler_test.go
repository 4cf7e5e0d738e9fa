package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReleaseHandler(t *testing.T, r repos) commands.ReleaseLockCommandHandler {
	t.Helper()
	factory := new(MockLockUoWFactory)
	factory.On("Create").Return(r.uow).Once()
	return commands.NewReleaseLockCommandHandler(factory, lockManager(t), fixedClock(t0))
}

func TestReleaseLockCommandHandler_Handle(t *testing.T) {
	_, tasks := splitShipment(t)
	tk := tasks[0]
	holder := newActor(t, actor.Collector)

	t.Run("holder deletes the lock", func(t *testing.T) {
		ctx := t.Context()
		current := lockOf(t, tk, holder, t0)
		cmd, err := commands.NewReleaseLockCommand(tk.ID(), holder)
		require.NoError(t, err)

		r := newRepos()
		mock.InOrder(
			r.uow.On("Begin", ctx).Return(nil).Once(),
			r.tasks.On("GetForUpdate", ctx, tk.ID()).Return(tk, nil).Once(),
			r.locks.On("Find", ctx, tk.ID()).Return(current, nil).Once(),
			r.locks.On("Delete", ctx, current).Return(nil).Once(),
			r.uow.On("Commit", ctx).Return(nil).Once(),
			r.uow.On("Rollback", ctx).Return(nil).Once(),
		)

		err = newReleaseHandler(t, r).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Len(t, current.PendingEvents(), 1)
		r.assertExpectations(t)
	})

	t.Run("free task is a no-op", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewReleaseLockCommand(tk.ID(), holder)
		require.NoError(t, err)

		r := newRepos()
		mock.InOrder(
			r.uow.On("Begin", ctx).Return(nil).Once(),
			r.tasks.On("GetForUpdate", ctx, tk.ID()).Return(tk, nil).Once(),
			r.locks.On("Find", ctx, tk.ID()).Return(nil, nil).Once(),
			r.uow.On("Rollback", ctx).Return(nil).Once(),
		)

		err = newReleaseHandler(t, r).Handle(ctx, cmd)

		require.NoError(t, err)
		r.locks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		r.assertExpectations(t)
	})

	t.Run("another collector cannot release", func(t *testing.T) {
		ctx := t.Context()
		cmd, err := commands.NewReleaseLockCommand(tk.ID(), newActor(t, actor.Collector))
		require.NoError(t, err)

		r := newRepos()
		mock.InOrder(
			r.uow.On("Begin", ctx).Return(nil).Once(),
			r.tasks.On("GetForUpdate", ctx, tk.ID()).Return(tk, nil).Once(),
			r.locks.On("Find", ctx, tk.ID()).Return(lockOf(t, tk, holder, t0), nil).Once(),
			r.uow.On("Rollback", ctx).Return(nil).Once(),
		)

		err = newReleaseHandler(t, r).Handle(ctx, cmd)

		assert.Equal(t, errs.CodeNotLockHolder, errs.CodeOf(err))
		r.assertExpectations(t)
	})
}
