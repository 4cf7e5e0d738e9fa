package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCreateShipmentHandler(t *testing.T, factory commands.UoWFactory) commands.CreateShipmentCommandHandler {
	t.Helper()
	splitter, err := services.NewSplitter(services.DefaultMaxTaskSize)
	require.NoError(t, err)
	return commands.NewCreateShipmentCommandHandler(factory, splitter, fixedClock(t0))
}

func TestCreateShipmentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(header(), lineSpecs(t))
	require.NoError(t, err)

	r := newRepos()
	var stored []*task.Task
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.shipments.On("Add", ctx, mock.AnythingOfType("*shipment.Shipment")).Return(nil).Once(),
		r.tasks.On("AddAll", ctx, mock.AnythingOfType("[]*task.Task")).
			Run(func(args mock.Arguments) { stored = args.Get(1).([]*task.Task) }).
			Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	result, err := newCreateShipmentHandler(t, factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.ShipmentID.IsZero())
	require.Len(t, result.TaskIDs, 2)
	require.Len(t, stored, 2)
	for i, tk := range stored {
		assert.Equal(t, result.TaskIDs[i], tk.ID())
		assert.Equal(t, result.ShipmentID, tk.ShipmentID())
	}
	r.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateShipmentCommandHandler_Handle_DuplicateNumber(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateShipmentCommand(header(), lineSpecs(t))
	require.NoError(t, err)

	duplicate := errs.NewConflictError(errs.CodeDuplicate, "shipment SO-1001 already exists")
	r := newRepos()
	mock.InOrder(
		r.uow.On("Begin", ctx).Return(nil).Once(),
		r.shipments.On("Add", ctx, mock.Anything).Return(duplicate).Once(),
		r.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	_, err = newCreateShipmentHandler(t, factory).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	assert.Equal(t, errs.CodeDuplicate, errs.CodeOf(err))
	r.uow.AssertNotCalled(t, "Commit", mock.Anything)
	r.tasks.AssertNotCalled(t, "AddAll", mock.Anything, mock.Anything)
}

func TestCreateShipmentCommandHandler_Handle_InvalidShipment(t *testing.T) {
	specs := lineSpecs(t)
	specs[0].Name = ""
	cmd, err := commands.NewCreateShipmentCommand(shipment.Header{Number: "SO-1"}, specs)
	require.NoError(t, err)

	factory := new(MockUoWFactory)

	_, err = newCreateShipmentHandler(t, factory).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateShipmentCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockUoWFactory)

	_, err := newCreateShipmentHandler(t, factory).Handle(t.Context(), commands.CreateShipmentCommand{})

	require.ErrorIs(t, err, commands.ErrCreateShipmentCommandIsNotConstructed)
}
