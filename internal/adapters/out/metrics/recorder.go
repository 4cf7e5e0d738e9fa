// Package metrics exposes Prometheus instrumentation for the fulfillment service.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/domain/model/tasklock"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fulfillment"

// Recorder counts domain events, HTTP requests and statistics deliveries.
// It doubles as an EventNotifier so it can sit next to the Redis publisher.
type Recorder struct {
	registry *prometheus.Registry

	events          *prometheus.CounterVec
	taskTransitions *prometheus.CounterVec
	lockReleases    *prometheus.CounterVec
	requests        *prometheus.HistogramVec
	dispatched      *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
}

// NewRecorder registers all collectors on a fresh registry together with the
// Go runtime and process collectors.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Recorder{
		registry: registry,
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Committed domain events by type.",
		}, []string{"type"}),
		taskTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "task_transitions_total",
			Help:      "Task status transitions by target status.",
		}, []string{"to"}),
		lockReleases: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_releases_total",
			Help:      "Released task locks by reason.",
		}, []string{"reason"}),
		requests: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		dispatched: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "statistics_reports_total",
			Help:      "Task reports handed to the statistics engine by outcome.",
		}, []string{"outcome"}),
		jobRuns: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and result.",
		}, []string{"job", "result"}),
	}
}

func (r *Recorder) Notify(_ context.Context, events ...kernel.DomainEvent) error {
	for _, event := range events {
		r.events.WithLabelValues(event.EventType()).Inc()

		switch e := event.(type) {
		case task.StatusChanged:
			r.taskTransitions.WithLabelValues(e.To.String()).Inc()
		case tasklock.Released:
			r.lockReleases.WithLabelValues(string(e.Reason)).Inc()
		}
	}
	return nil
}

// ObserveDispatch records the outcome of one statistics dispatch run.
func (r *Recorder) ObserveDispatch(dispatched, failed, abandoned int) {
	r.dispatched.WithLabelValues("dispatched").Add(float64(dispatched))
	r.dispatched.WithLabelValues("failed").Add(float64(failed))
	r.dispatched.WithLabelValues("abandoned").Add(float64(abandoned))
}

// ObserveJobRun counts a scheduled job run.
func (r *Recorder) ObserveJobRun(job string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.jobRuns.WithLabelValues(job, result).Inc()
}

// Middleware measures every request by its route template.
func (r *Recorder) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < http.StatusBadRequest {
					status = http.StatusInternalServerError
				}
			}
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			r.requests.
				WithLabelValues(c.Request().Method, route, strconv.Itoa(status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
