package cmd

import (
	"context"
	"errors"
	"log/slog"

	api "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/adapters/out/metrics"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/statistics"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/clock"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	cfg    Config
	logger *slog.Logger
	clock  clock.Clock

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory

	roles       actor.Policy
	lockManager services.LockManager
	splitter    services.Splitter

	metrics   *metrics.Recorder
	redis     *redis.Client
	publisher *events.RedisPublisher
	notifier  *events.AsyncNotifier
	stats     *statistics.Client
}

// NewCompositionRoot opens the database, applies migrations and builds the
// shared collaborators. The caller owns the result and must Close it.
func NewCompositionRoot(ctx context.Context, cfg Config, logger *slog.Logger) (*CompositionRoot, error) {
	lockPolicy, err := cfg.LockPolicy()
	if err != nil {
		return nil, err
	}
	roles, err := cfg.RolePolicy()
	if err != nil {
		return nil, err
	}
	splitter, err := services.NewSplitter(cfg.MaxTaskSize)
	if err != nil {
		return nil, err
	}

	dsn := postgres.DSN(cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSslMode)
	gormDB, err := postgres.Open(ctx, dsn, postgres.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(ctx, gormDB); err != nil {
		closeDB(gormDB)
		return nil, err
	}

	c := &CompositionRoot{
		cfg:         cfg,
		logger:      logger,
		clock:       clock.System{},
		gormDB:      gormDB,
		roles:       roles,
		lockManager: services.NewLockManager(lockPolicy, roles),
		splitter:    splitter,
		metrics:     metrics.NewRecorder(),
	}

	notifiers := []ports.EventNotifier{c.metrics}
	if cfg.RedisAddr != "" {
		c.redis = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		c.publisher, err = events.NewRedisPublisher(c.redis, cfg.RedisEventsChannel)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
		notifiers = append(notifiers, c.publisher)
	} else {
		logger.Warn("REDIS_ADDR is empty, domain events are not published")
	}
	c.notifier = events.NewAsyncNotifier(events.NewFanout(notifiers...), cfg.EventBuffer, logger)
	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, c.notifier, c.clock, logger)

	if cfg.StatsEngineURL != "" {
		c.stats, err = statistics.NewClient(statistics.DefaultConfig(cfg.StatsEngineURL), logger)
		if err != nil {
			_ = c.Close(ctx)
			return nil, err
		}
	} else {
		logger.Warn("STATS_ENGINE_URL is empty, task reports stay in the outbox")
	}

	return c, nil
}

// Close drains pending events and releases connections.
func (c *CompositionRoot) Close(ctx context.Context) error {
	var errList []error
	if c.notifier != nil {
		errList = append(errList, c.notifier.Close(ctx))
	}
	if c.redis != nil {
		errList = append(errList, c.redis.Close())
	}
	if sqlDB, err := c.gormDB.DB(); err == nil {
		errList = append(errList, sqlDB.Close())
	}
	return errors.Join(errList...)
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func (c *CompositionRoot) lockUoWFactory() commands.LockUoWFactory {
	return FuncLockUoWFactory(func() commands.LockUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) shipmentUoWFactory() commands.ShipmentUoWFactory {
	return FuncShipmentUoWFactory(func() commands.ShipmentUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) outboxUoWFactory() commands.OutboxUoWFactory {
	return FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) fullUoWFactory() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateShipmentCommandHandler() commands.CreateShipmentCommandHandler {
	return commands.NewCreateShipmentCommandHandler(c.fullUoWFactory(), c.splitter, c.clock)
}

func (c *CompositionRoot) CreateAcquireLockCommandHandler() commands.AcquireLockCommandHandler {
	return commands.NewAcquireLockCommandHandler(c.lockUoWFactory(), c.lockManager, c.clock)
}

func (c *CompositionRoot) CreateReleaseLockCommandHandler() commands.ReleaseLockCommandHandler {
	return commands.NewReleaseLockCommandHandler(c.lockUoWFactory(), c.lockManager, c.clock)
}

func (c *CompositionRoot) CreateSaveProgressCommandHandler() commands.SaveProgressCommandHandler {
	return commands.NewSaveProgressCommandHandler(c.lockUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateSaveConfirmationProgressCommandHandler() commands.SaveConfirmationProgressCommandHandler {
	return commands.NewSaveConfirmationProgressCommandHandler(c.lockUoWFactory(), c.roles, c.clock)
}

func (c *CompositionRoot) CreateSubmitForReviewCommandHandler() commands.SubmitForReviewCommandHandler {
	return commands.NewSubmitForReviewCommandHandler(c.fullUoWFactory(), c.clock)
}

func (c *CompositionRoot) CreateConfirmTaskCommandHandler() commands.ConfirmTaskCommandHandler {
	return commands.NewConfirmTaskCommandHandler(c.fullUoWFactory(), c.roles, c.clock)
}

func (c *CompositionRoot) CreateAdminResetCommandHandler() commands.AdminResetCommandHandler {
	return commands.NewAdminResetCommandHandler(c.fullUoWFactory(), c.roles, c.clock)
}

func (c *CompositionRoot) CreateMarkShipmentExportedCommandHandler() commands.MarkShipmentExportedCommandHandler {
	return commands.NewMarkShipmentExportedCommandHandler(c.shipmentUoWFactory(), c.roles, c.clock)
}

func (c *CompositionRoot) CreateDispatchTaskStatisticsCommandHandler() commands.DispatchTaskStatisticsCommandHandler {
	return commands.NewDispatchTaskStatisticsCommandHandler(c.outboxUoWFactory(), c.stats, c.cfg.DispatchPolicy(), c.clock)
}

func (c *CompositionRoot) CreateGetShipmentQueryHandler() queries.GetShipmentQueryHandler {
	return queries.NewGetShipmentQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetActiveTasksQueryHandler() queries.GetActiveTasksQueryHandler {
	return queries.NewGetActiveTasksQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUnexportedShipmentsQueryHandler() queries.GetUnexportedShipmentsQueryHandler {
	return queries.NewGetUnexportedShipmentsQueryHandler(c.gormDB)
}

// CreateJobManager schedules the statistics dispatch. Without a statistics
// engine there is nothing to dispatch and the manager is empty.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	if c.stats == nil {
		return jobs.NewJobManager()
	}
	return jobs.NewJobManager(jobs.NewStatisticsDispatchJob(
		c.CreateDispatchTaskStatisticsCommandHandler(),
		c.metrics,
		c.cfg.StatsDispatchSchedule,
		c.cfg.StatsDispatchBatch,
		c.logger,
	))
}

// CreateRouter builds the HTTP surface. The contract document is validated
// here, so a broken openapi.yaml stops the process at startup.
func (c *CompositionRoot) CreateRouter(ctx context.Context) (*echo.Echo, error) {
	contract, err := api.LoadContract(ctx)
	if err != nil {
		return nil, err
	}
	if err = contract.RegisterSwagger(); err != nil {
		return nil, err
	}

	server := api.NewServer(api.Handlers{
		CreateShipment:           c.CreateCreateShipmentCommandHandler(),
		AdminReset:               c.CreateAdminResetCommandHandler(),
		MarkShipmentExported:     c.CreateMarkShipmentExportedCommandHandler(),
		AcquireLock:              c.CreateAcquireLockCommandHandler(),
		ReleaseLock:              c.CreateReleaseLockCommandHandler(),
		SaveProgress:             c.CreateSaveProgressCommandHandler(),
		SubmitForReview:          c.CreateSubmitForReviewCommandHandler(),
		SaveConfirmationProgress: c.CreateSaveConfirmationProgressCommandHandler(),
		Confirm:                  c.CreateConfirmTaskCommandHandler(),
		GetShipment:              c.CreateGetShipmentQueryHandler(),
		GetActiveTasks:           c.CreateGetActiveTasksQueryHandler(),
		GetUnexportedShipments:   c.CreateGetUnexportedShipmentsQueryHandler(),
	}, c.logger)

	health := map[string]api.HealthChecker{
		"postgres": postgres.NewReadinessChecker(c.gormDB),
	}
	if c.publisher != nil {
		health["redis"] = api.HealthCheckFunc(c.publisher.Ping)
	}

	return api.NewRouter(server, api.RouterConfig{
		Contract:       contract,
		Metrics:        c.metrics.Middleware(),
		MetricsHandler: c.metrics.Handler(),
		Health:         health,
		Logger:         c.logger,
	}), nil
}

type FuncLockUoWFactory func() commands.LockUoW

func (f FuncLockUoWFactory) Create() commands.LockUoW {
	return f()
}

type FuncShipmentUoWFactory func() commands.ShipmentUoW

func (f FuncShipmentUoWFactory) Create() commands.ShipmentUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
