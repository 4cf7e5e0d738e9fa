package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDispatchHandler struct {
	mock.Mock
}

func (m *MockDispatchHandler) Handle(
	ctx context.Context,
	command commands.DispatchTaskStatisticsCommand,
) (commands.DispatchResult, error) {
	args := m.Called(ctx, command)
	return args.Get(0).(commands.DispatchResult), args.Error(1)
}

type MockObserver struct {
	mock.Mock
}

func (m *MockObserver) ObserveDispatch(dispatched, failed, abandoned int) {
	m.Called(dispatched, failed, abandoned)
}

func (m *MockObserver) ObserveJobRun(job string, err error) {
	m.Called(job, err)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatisticsDispatchJob_Run_ReportsOutcome(t *testing.T) {
	handler := &MockDispatchHandler{}
	observer := &MockObserver{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(c commands.DispatchTaskStatisticsCommand) bool {
		return c.BatchSize() == 25
	})).Return(commands.DispatchResult{Dispatched: 4, Failed: 1, Abandoned: 2}, nil).Once()
	observer.On("ObserveDispatch", 4, 1, 2).Once()
	observer.On("ObserveJobRun", jobs.StatisticsDispatchJobName, nil).Once()

	job := jobs.NewStatisticsDispatchJob(handler, observer, "", 25, discardLogger())
	job.Run(t.Context())

	handler.AssertExpectations(t)
	observer.AssertExpectations(t)
}

func TestStatisticsDispatchJob_Run_HandlerError(t *testing.T) {
	handler := &MockDispatchHandler{}
	observer := &MockObserver{}
	failure := errors.New("database is down")
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.DispatchResult{}, failure).Once()
	observer.On("ObserveDispatch", 0, 0, 0).Once()
	observer.On("ObserveJobRun", jobs.StatisticsDispatchJobName, failure).Once()

	job := jobs.NewStatisticsDispatchJob(handler, observer, "", 10, discardLogger())
	job.Run(t.Context())

	observer.AssertExpectations(t)
}

func TestStatisticsDispatchJob_Run_InvalidBatchSize_SkipsHandler(t *testing.T) {
	handler := &MockDispatchHandler{}
	observer := &MockObserver{}
	observer.On("ObserveDispatch", 0, 0, 0).Once()
	observer.On("ObserveJobRun", jobs.StatisticsDispatchJobName, mock.Anything).Once()

	job := jobs.NewStatisticsDispatchJob(handler, observer, "", 0, discardLogger())
	job.Run(t.Context())

	handler.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	observer.AssertExpectations(t)
}

func TestStatisticsDispatchJob_Start_InvalidSchedule(t *testing.T) {
	job := jobs.NewStatisticsDispatchJob(&MockDispatchHandler{}, nil, "not a cron spec", 10, discardLogger())

	require.Error(t, job.Start())
}

func TestStatisticsDispatchJob_StartStop(t *testing.T) {
	job := jobs.NewStatisticsDispatchJob(&MockDispatchHandler{}, nil, "0 0 3 * * *", 10, discardLogger())

	require.NoError(t, job.Start())
	job.Stop()
	assert.Equal(t, jobs.StatisticsDispatchJobName, job.Name())
}
