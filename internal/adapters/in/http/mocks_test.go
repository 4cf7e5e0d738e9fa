package http_test

import (
	"context"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockCreateShipmentHandler struct{ mock.Mock }

func (m *MockCreateShipmentHandler) Handle(
	ctx context.Context,
	command commands.CreateShipmentCommand,
) (commands.CreateShipmentResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.CreateShipmentResult), args.Error(1)
}

type MockAdminResetHandler struct{ mock.Mock }

func (m *MockAdminResetHandler) Handle(ctx context.Context, command commands.AdminResetCommand) error {
	return m.Called(ctx, command).Error(0)
}

type MockAcquireLockHandler struct{ mock.Mock }

func (m *MockAcquireLockHandler) Handle(
	ctx context.Context,
	command commands.AcquireLockCommand,
) (commands.AcquireLockResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.AcquireLockResult), args.Error(1)
}

type MockReleaseLockHandler struct{ mock.Mock }

func (m *MockReleaseLockHandler) Handle(ctx context.Context, command commands.ReleaseLockCommand) error {
	return m.Called(ctx, command).Error(0)
}

type MockSubmitForReviewHandler struct{ mock.Mock }

func (m *MockSubmitForReviewHandler) Handle(
	ctx context.Context,
	command commands.SubmitForReviewCommand,
) (commands.SubmitForReviewResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.SubmitForReviewResult), args.Error(1)
}

type MockGetShipmentHandler struct{ mock.Mock }

func (m *MockGetShipmentHandler) Handle(
	ctx context.Context,
	query queries.GetShipmentQuery,
) (*queries.ShipmentView, error) {
	args := m.Called(ctx, query)
	view, _ := args.Get(0).(*queries.ShipmentView)
	return view, args.Error(1)
}

type MockGetActiveTasksHandler struct{ mock.Mock }

func (m *MockGetActiveTasksHandler) Handle(
	ctx context.Context,
	query queries.GetActiveTasksQuery,
) ([]queries.TaskView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.TaskView)
	return views, args.Error(1)
}

type MockGetUnexportedShipmentsHandler struct{ mock.Mock }

func (m *MockGetUnexportedShipmentsHandler) Handle(
	ctx context.Context,
	query queries.GetUnexportedShipmentsQuery,
) ([]queries.UnexportedShipmentView, error) {
	args := m.Called(ctx, query)
	views, _ := args.Get(0).([]queries.UnexportedShipmentView)
	return views, args.Error(1)
}
