package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const healthTimeout = 2 * time.Second

// HealthChecker is a dependency checked by /health.
type HealthChecker interface {
	Check(ctx context.Context) error
}

// HealthCheckFunc adapts a check function, e.g. a Redis ping.
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// RouterConfig carries the infrastructure around the API routes.
type RouterConfig struct {
	Contract *Contract
	// Metrics measures requests; nil disables it.
	Metrics echo.MiddlewareFunc
	// MetricsHandler is served on /metrics; nil disables the endpoint.
	MetricsHandler http.Handler
	Health         map[string]HealthChecker
	Logger         *slog.Logger
}

// NewRouter builds the echo instance with every route of the service.
func NewRouter(server *Server, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		e.Use(cfg.Metrics)
	}

	e.GET("/health", health(cfg.Health))
	if cfg.MetricsHandler != nil {
		e.GET("/metrics", echo.WrapHandler(cfg.MetricsHandler))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api/v1", CallerMiddleware())
	if cfg.Contract != nil {
		api.Use(cfg.Contract.Validator())
	}

	api.POST("/shipments", server.CreateShipment)
	api.GET("/shipments/unexported", server.GetUnexportedShipments)
	api.GET("/shipments/:shipmentId", server.GetShipment)
	api.POST("/shipments/:shipmentId/reset", server.AdminReset)
	api.POST("/shipments/:shipmentId/exported", server.MarkShipmentExported)

	api.GET("/tasks", server.GetActiveTasks)
	api.POST("/tasks/:taskId/lock", server.AcquireLock)
	api.DELETE("/tasks/:taskId/lock", server.ReleaseLock)
	api.PUT("/tasks/:taskId/progress", server.SaveProgress)
	api.POST("/tasks/:taskId/submit", server.SubmitForReview)
	api.PUT("/tasks/:taskId/confirmation", server.SaveConfirmationProgress)
	api.POST("/tasks/:taskId/confirm", server.Confirm)

	return e
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				logger.ErrorContext(c.Request().Context(), "Request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			logger.DebugContext(c.Request().Context(), "Request served", attrs...)
			return nil
		},
	})
}

type healthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func health(checkers map[string]HealthChecker) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		defer cancel()

		report := healthReport{Status: "ok", Checks: make(map[string]string, len(checkers))}
		status := http.StatusOK
		for name, checker := range checkers {
			if err := checker.Check(ctx); err != nil {
				report.Checks[name] = err.Error()
				report.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			report.Checks[name] = "ok"
		}
		return c.JSON(status, report)
	}
}
