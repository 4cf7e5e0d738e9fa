package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockShipmentRepository struct{ mock.Mock }

func (m *MockShipmentRepository) Add(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Update(ctx context.Context, s *shipment.Shipment) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockShipmentRepository) Get(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

func (m *MockShipmentRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*shipment.Shipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shipment.Shipment), args.Error(1)
}

type MockTaskRepository struct{ mock.Mock }

func (m *MockTaskRepository) AddAll(ctx context.Context, tasks []*task.Task) error {
	args := m.Called(ctx, tasks)
	return args.Error(0)
}

func (m *MockTaskRepository) Update(ctx context.Context, t *task.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTaskRepository) Get(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*task.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByShipment(ctx context.Context, shipmentID kernel.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByShipmentForUpdate(ctx context.Context, shipmentID kernel.UUID) ([]*task.Task, error) {
	args := m.Called(ctx, shipmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*task.Task), args.Error(1)
}

type MockLockRepository struct{ mock.Mock }

func (m *MockLockRepository) Find(ctx context.Context, taskID kernel.UUID) (*tasklock.Lock, error) {
	args := m.Called(ctx, taskID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tasklock.Lock), args.Error(1)
}

func (m *MockLockRepository) Add(ctx context.Context, l *tasklock.Lock) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLockRepository) Update(ctx context.Context, l *tasklock.Lock) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLockRepository) Delete(ctx context.Context, l *tasklock.Lock) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockLockRepository) ListByTasks(ctx context.Context, taskIDs []kernel.UUID) ([]*tasklock.Lock, error) {
	args := m.Called(ctx, taskIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*tasklock.Lock), args.Error(1)
}

type MockStatisticsOutbox struct{ mock.Mock }

func (m *MockStatisticsOutbox) Enqueue(ctx context.Context, report task.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

func (m *MockStatisticsOutbox) Claim(ctx context.Context, limit int, now, leaseUntil time.Time) ([]ports.OutboxEntry, error) {
	args := m.Called(ctx, limit, now, leaseUntil)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.OutboxEntry), args.Error(1)
}

func (m *MockStatisticsOutbox) MarkDispatched(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockStatisticsOutbox) MarkFailed(ctx context.Context, id int64, reason string, retryAt time.Time) error {
	args := m.Called(ctx, id, reason, retryAt)
	return args.Error(0)
}

func (m *MockStatisticsOutbox) MarkAbandoned(ctx context.Context, id int64, reason string, at time.Time) error {
	args := m.Called(ctx, id, reason, at)
	return args.Error(0)
}

type MockStatisticsEngine struct{ mock.Mock }

func (m *MockStatisticsEngine) SubmitTaskReport(ctx context.Context, report task.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// MockUoW satisfies every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) ShipmentRepository() ports.ShipmentRepository {
	args := m.Called()
	return args.Get(0).(ports.ShipmentRepository)
}

func (m *MockUoW) TaskRepository() ports.TaskRepository {
	args := m.Called()
	return args.Get(0).(ports.TaskRepository)
}

func (m *MockUoW) LockRepository() ports.LockRepository {
	args := m.Called()
	return args.Get(0).(ports.LockRepository)
}

func (m *MockUoW) StatisticsOutbox() ports.StatisticsOutbox {
	args := m.Called()
	return args.Get(0).(ports.StatisticsOutbox)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockLockUoWFactory struct{ mock.Mock }

func (m *MockLockUoWFactory) Create() commands.LockUoW {
	args := m.Called()
	return args.Get(0).(commands.LockUoW)
}

type MockShipmentUoWFactory struct{ mock.Mock }

func (m *MockShipmentUoWFactory) Create() commands.ShipmentUoW {
	args := m.Called()
	return args.Get(0).(commands.ShipmentUoW)
}

type MockOutboxUoWFactory struct{ mock.Mock }

func (m *MockOutboxUoWFactory) Create() commands.OutboxUoW {
	args := m.Called()
	return args.Get(0).(commands.OutboxUoW)
}

// repos bundles a mocked unit of work with its repositories. Repository
// accessors may be called any number of times.
type repos struct {
	uow       *MockUoW
	shipments *MockShipmentRepository
	tasks     *MockTaskRepository
	locks     *MockLockRepository
	outbox    *MockStatisticsOutbox
}

func newRepos() repos {
	r := repos{
		uow:       new(MockUoW),
		shipments: new(MockShipmentRepository),
		tasks:     new(MockTaskRepository),
		locks:     new(MockLockRepository),
		outbox:    new(MockStatisticsOutbox),
	}
	r.uow.On("ShipmentRepository").Return(r.shipments).Maybe()
	r.uow.On("TaskRepository").Return(r.tasks).Maybe()
	r.uow.On("LockRepository").Return(r.locks).Maybe()
	r.uow.On("StatisticsOutbox").Return(r.outbox).Maybe()
	return r
}

func (r repos) assertExpectations(t mock.TestingT) {
	r.uow.AssertExpectations(t)
	r.shipments.AssertExpectations(t)
	r.tasks.AssertExpectations(t)
	r.locks.AssertExpectations(t)
	r.outbox.AssertExpectations(t)
}
