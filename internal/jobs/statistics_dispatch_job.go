package jobs

import (
	"context"
	"log/slog"
	"sync"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

const (
	StatisticsDispatchJobName = "statistics_dispatch"

	// DefaultDispatchSchedule runs every five seconds.
	DefaultDispatchSchedule = "*/5 * * * * *"
)

type DispatchHandler interface {
	Handle(ctx context.Context, command commands.DispatchTaskStatisticsCommand) (commands.DispatchResult, error)
}

// DispatchObserver receives run outcomes, typically the Prometheus recorder.
type DispatchObserver interface {
	ObserveDispatch(dispatched, failed, abandoned int)
	ObserveJobRun(job string, err error)
}

// StatisticsDispatchJob periodically drains the statistics outbox.
// Runs never overlap: a tick arriving while the previous run is still busy is skipped.
type StatisticsDispatchJob struct {
	handler   DispatchHandler
	observer  DispatchObserver
	schedule  string
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
	running   sync.Mutex
}

func NewStatisticsDispatchJob(
	handler DispatchHandler,
	observer DispatchObserver,
	schedule string,
	batchSize int,
	logger *slog.Logger,
) *StatisticsDispatchJob {
	if schedule == "" {
		schedule = DefaultDispatchSchedule
	}
	return &StatisticsDispatchJob{
		handler:   handler,
		observer:  observer,
		schedule:  schedule,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "statistics_dispatch_job"),
	}
}

func (j *StatisticsDispatchJob) Name() string {
	return StatisticsDispatchJobName
}

// Start registers the job on its schedule and starts the scheduler.
func (j *StatisticsDispatchJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() { j.Run(context.Background()) }); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Statistics dispatch job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a run in progress.
func (j *StatisticsDispatchJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Statistics dispatch job stopped")
}

// Run performs one dispatch pass.
func (j *StatisticsDispatchJob) Run(ctx context.Context) {
	if !j.running.TryLock() {
		j.logger.DebugContext(ctx, "Previous dispatch still running, skipping tick")
		return
	}
	defer j.running.Unlock()

	cmd, err := commands.NewDispatchTaskStatisticsCommand(j.batchSize)
	if err != nil {
		j.logger.ErrorContext(ctx, "Statistics dispatch misconfigured", "error", err)
		j.observe(commands.DispatchResult{}, err)
		return
	}

	result, err := j.handler.Handle(ctx, cmd)
	j.observe(result, err)
	if err != nil {
		j.logger.ErrorContext(ctx, "Statistics dispatch job failed", "error", err)
		return
	}
	if result.Abandoned > 0 {
		j.logger.ErrorContext(ctx, "Task reports abandoned",
			"dispatched", result.Dispatched, "failed", result.Failed, "abandoned", result.Abandoned)
	} else if result.Failed > 0 {
		j.logger.WarnContext(ctx, "Some task reports were not delivered",
			"dispatched", result.Dispatched, "failed", result.Failed)
	} else if result.Dispatched > 0 {
		j.logger.DebugContext(ctx, "Task reports delivered", "dispatched", result.Dispatched)
	}
}

func (j *StatisticsDispatchJob) observe(result commands.DispatchResult, err error) {
	if j.observer == nil {
		return
	}
	j.observer.ObserveDispatch(result.Dispatched, result.Failed, result.Abandoned)
	j.observer.ObserveJobRun(StatisticsDispatchJobName, err)
}
