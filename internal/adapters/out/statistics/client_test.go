package statistics_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/statistics"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) statistics.Config {
	cfg := statistics.DefaultConfig(url)
	cfg.InitialInterval = time.Millisecond
	cfg.RatePerSecond = 1000
	cfg.Burst = 100
	return cfg
}

func newClient(t *testing.T, cfg statistics.Config) *statistics.Client {
	t.Helper()
	client, err := statistics.NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return client
}

func sampleReport() task.Report {
	return task.Report{
		TaskID:      kernel.NewUUID(),
		ShipmentID:  kernel.NewUUID(),
		Warehouse:   "MAIN",
		ItemCount:   3,
		UnitCount:   decimal.NewFromInt(12),
		Places:      2,
		ConfirmedAt: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC),
	}
}

func TestNewClient_RequiresURL(t *testing.T) {
	_, err := statistics.NewClient(statistics.Config{}, slog.Default())

	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestClient_SubmitTaskReport_PostsJSON(t *testing.T) {
	report := sampleReport()
	var received task.Report
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/task-reports", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	err := newClient(t, testConfig(server.URL+"/")).SubmitTaskReport(t.Context(), report)

	require.NoError(t, err)
	assert.Equal(t, report.TaskID, received.TaskID)
	assert.True(t, report.UnitCount.Equal(received.UnitCount))
}

func TestClient_SubmitTaskReport_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	err := newClient(t, testConfig(server.URL)).SubmitTaskReport(t.Context(), sampleReport())

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_SubmitTaskReport_RejectionIsFinal(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "unknown collector", http.StatusUnprocessableEntity)
	}))
	defer server.Close()

	err := newClient(t, testConfig(server.URL)).SubmitTaskReport(t.Context(), sampleReport())

	var rejected *statistics.RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.StatusCode)
	assert.Equal(t, "unknown collector", rejected.Body)
	assert.ErrorIs(t, err, ports.ErrReportRejected)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_SubmitTaskReport_BreakerOpensAfterFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 0
	cfg.BreakerFailures = 2
	client := newClient(t, cfg)

	require.Error(t, client.SubmitTaskReport(t.Context(), sampleReport()))
	require.Error(t, client.SubmitTaskReport(t.Context(), sampleReport()))
	err := client.SubmitTaskReport(t.Context(), sampleReport())

	require.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_SubmitTaskReport_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	err := newClient(t, testConfig(server.URL)).SubmitTaskReport(ctx, sampleReport())

	require.Error(t, err)
}
