package taskrepo_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/pgtest"
	"fulfillment/internal/adapters/out/postgres/shipmentrepo"
	"fulfillment/internal/adapters/out/postgres/taskrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/lifecycle"
	"fulfillment/internal/core/domain/model/shipment"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

var t0 = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

type TaskRepositoryIntegrationTestSuite struct {
	suite.Suite
	pg         *pgtest.Database
	tracker    *pgtest.Tracker
	shipments  *shipmentrepo.GormShipmentRepository
	repository *taskrepo.GormTaskRepository
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupSuite() {
	pg, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.pg = pg
}

func (suite *TaskRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.pg.Truncate(context.Background()))
	suite.tracker = &pgtest.Tracker{}
	suite.shipments = shipmentrepo.NewGormShipmentRepository(suite.pg.DB, suite.tracker)
	suite.repository = taskrepo.NewGormTaskRepository(suite.pg.DB, suite.tracker)
}

func (suite *TaskRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.pg != nil {
		suite.Require().NoError(suite.pg.Terminate(context.Background()))
	}
}

// seed stores a shipment split into a MAIN task with two lines and a COLD task.
func (suite *TaskRepositoryIntegrationTestSuite) seed(number string) (*shipment.Shipment, []*task.Task) {
	sh, tasks := pgtest.SplitShipment(suite.T(), number, t0,
		pgtest.Line{SKU: "SKU-1", Qty: 4, Warehouse: "MAIN"},
		pgtest.Line{SKU: "SKU-2", Qty: 2, Warehouse: "COLD"},
		pgtest.Line{SKU: "SKU-3", Qty: 7, Warehouse: "MAIN"},
	)
	ctx := context.Background()
	suite.Require().NoError(suite.shipments.Add(ctx, sh))
	suite.Require().NoError(suite.repository.AddAll(ctx, tasks))
	return sh, tasks
}

func (suite *TaskRepositoryIntegrationTestSuite) TestAddAll_ListByShipment_KeepsOrder() {
	ctx := context.Background()
	sh, tasks := suite.seed("SO-1")

	got, err := suite.repository.ListByShipment(ctx, sh.ID())
	suite.Require().NoError(err)
	suite.Require().Len(got, len(tasks))

	for i, tk := range got {
		suite.Equal(tasks[i].ID(), tk.ID())
		suite.Equal(tasks[i].Warehouse().Code(), tk.Warehouse().Code())
		suite.Equal(lifecycle.New, tk.Status())
		suite.Require().Len(tk.Lines(), len(tasks[i].Lines()))
		for j, line := range tk.Lines() {
			suite.Equal(tasks[i].Lines()[j].ShipmentLineID(), line.ShipmentLineID())
		}
	}
}

func (suite *TaskRepositoryIntegrationTestSuite) TestGet_NotFound() {
	_, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_PersistsPickingAndChecking() {
	ctx := context.Background()
	_, tasks := suite.seed("SO-2")
	tk := tasks[0]
	collector := kernel.NewUUID()
	checker := kernel.NewUUID()
	places := 3

	line := tk.Lines()[0]
	suite.Require().NoError(tk.SaveProgress(task.ProgressInput{
		CollectorID: collector,
		Lines:       []task.LineUpdate{{LineID: line.ID(), Quantity: decimal.NewFromInt(2)}},
		Now:         t0.Add(time.Minute),
	}))
	suite.Require().NoError(tk.SubmitForReview(task.SubmitInput{
		CollectorID: collector,
		Places:      &places,
		Now:         t0.Add(10 * time.Minute),
	}))
	suite.Require().NoError(tk.Confirm(task.ConfirmInput{CheckerID: checker, Now: t0.Add(20 * time.Minute)}))

	suite.Require().NoError(suite.repository.Update(ctx, tk))

	got, err := suite.repository.Get(ctx, tk.ID())
	suite.Require().NoError(err)
	suite.Equal(lifecycle.Processed, got.Status())
	suite.Require().NotNil(got.CollectorID())
	suite.Equal(collector, *got.CollectorID())
	suite.Require().NotNil(got.CheckerID())
	suite.Equal(checker, *got.CheckerID())
	suite.Nil(got.DictatorID())
	suite.Equal(3, got.Places())
	suite.Require().NotNil(got.StartedAt())
	suite.True(t0.Add(time.Minute).Equal(*got.StartedAt()))
	suite.Require().NotNil(got.CompletedAt())
	suite.Require().NotNil(got.ConfirmedAt())
	suite.Equal(tk.Metrics().ItemCount, got.Metrics().ItemCount)
	suite.True(tk.Metrics().UnitCount.Equal(got.Metrics().UnitCount))
	suite.Equal(tk.Metrics().TimePerHundredItems, got.Metrics().TimePerHundredItems)

	result := got.Lines()[0].Result()
	suite.Require().NotNil(result.CollectedQty)
	suite.True(decimal.NewFromInt(2).Equal(*result.CollectedQty))
	suite.True(result.Confirmed)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_ResetClearsColumns() {
	ctx := context.Background()
	_, tasks := suite.seed("SO-3")
	tk := tasks[1]
	collector := kernel.NewUUID()
	suite.Require().NoError(tk.SubmitForReview(task.SubmitInput{CollectorID: collector, Now: t0}))
	suite.Require().NoError(suite.repository.Update(ctx, tk))

	suite.Require().NoError(tk.Reset(lifecycle.ResetCollect, t0.Add(time.Hour)))
	suite.Require().NoError(suite.repository.Update(ctx, tk))

	got, err := suite.repository.Get(ctx, tk.ID())
	suite.Require().NoError(err)
	suite.Equal(lifecycle.New, got.Status())
	suite.Nil(got.CollectorID())
	suite.Nil(got.CompletedAt())
	suite.Nil(got.Lines()[0].Result().CollectedQty)
}

func (suite *TaskRepositoryIntegrationTestSuite) TestListByShipmentForUpdate_InsideTransaction() {
	ctx := context.Background()
	sh, tasks := suite.seed("SO-4")

	tx := suite.pg.DB.Begin()
	defer tx.Rollback()

	got, err := taskrepo.NewGormTaskRepository(tx, suite.tracker).ListByShipmentForUpdate(ctx, sh.ID())
	suite.Require().NoError(err)
	suite.Len(got, len(tasks))
}

func (suite *TaskRepositoryIntegrationTestSuite) TestUpdate_Missing_ReturnsNotFound() {
	_, tasks := pgtest.SplitShipment(suite.T(), "SO-5", t0, pgtest.Line{SKU: "SKU-1", Qty: 1, Warehouse: "MAIN"})

	err := suite.repository.Update(context.Background(), tasks[0])

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func TestTaskRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}
	suite.Run(t, new(TaskRepositoryIntegrationTestSuite))
}
