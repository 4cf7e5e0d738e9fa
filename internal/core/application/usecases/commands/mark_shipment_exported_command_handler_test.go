package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMarkShipmentExportedCommandHandler_Handle(t *testing.T) {
	t.Run("processed shipment is stamped", func(t *testing.T) {
		ctx := t.Context()
		sh, _ := splitShipment(t)
		require.NoError(t, sh.Rollup([]lifecycle.Status{lifecycle.Processed, lifecycle.Processed}, t0))
		cmd, err := commands.NewMarkShipmentExportedCommand(sh.ID(), newActor(t, actor.Admin))
		require.NoError(t, err)

		r := newRepos()
		mock.InOrder(
			r.uow.On("Begin", ctx).Return(nil).Once(),
			r.shipments.On("GetForUpdate", ctx, sh.ID()).Return(sh, nil).Once(),
			r.shipments.On("Update", ctx, sh).Return(nil).Once(),
			r.uow.On("Commit", ctx).Return(nil).Once(),
			r.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockShipmentUoWFactory)
		factory.On("Create").Return(r.uow).Once()

		err = commands.NewMarkShipmentExportedCommandHandler(factory, actor.Policy{}, fixedClock(t0)).Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, sh.IsExported())
		r.assertExpectations(t)
	})

	t.Run("open shipment is rejected", func(t *testing.T) {
		ctx := t.Context()
		sh, _ := splitShipment(t)
		cmd, err := commands.NewMarkShipmentExportedCommand(sh.ID(), newActor(t, actor.Admin))
		require.NoError(t, err)

		r := newRepos()
		mock.InOrder(
			r.uow.On("Begin", ctx).Return(nil).Once(),
			r.shipments.On("GetForUpdate", ctx, sh.ID()).Return(sh, nil).Once(),
			r.uow.On("Rollback", ctx).Return(nil).Once(),
		)
		factory := new(MockShipmentUoWFactory)
		factory.On("Create").Return(r.uow).Once()

		err = commands.NewMarkShipmentExportedCommandHandler(factory, actor.Policy{}, fixedClock(t0)).Handle(ctx, cmd)

		assert.Equal(t, errs.CodeWrongState, errs.CodeOf(err))
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		sh, _ := splitShipment(t)
		cmd, err := commands.NewMarkShipmentExportedCommand(sh.ID(), newActor(t, actor.Checker))
		require.NoError(t, err)
		factory := new(MockShipmentUoWFactory)

		err = commands.NewMarkShipmentExportedCommandHandler(factory, actor.Policy{}, fixedClock(t0)).Handle(t.Context(), cmd)

		require.ErrorIs(t, err, errs.ErrForbidden)
		factory.AssertNotCalled(t, "Create")
	})
}
