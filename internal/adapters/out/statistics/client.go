// Package statistics is the HTTP client of the external points and ranking engine.
//
// Every report goes through a rate limiter, a circuit breaker and an
// exponential retry. Rejections (4xx) are final and do not count as breaker
// failures; transport errors and 5xx answers are retried until the retry
// budget is spent or the breaker opens.
package statistics

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/task"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const reportsPath = "/api/v1/task-reports"

// Config tunes the client. Zero values fall back to the defaults below.
type Config struct {
	BaseURL         string
	Timeout         time.Duration
	MaxRetries      uint64
	InitialInterval time.Duration
	RatePerSecond   float64
	Burst           int
	// BreakerFailures is the number of consecutive failures that opens the breaker.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL:         baseURL,
		Timeout:         5 * time.Second,
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		RatePerSecond:   20,
		Burst:           5,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// RejectedError is a 4xx answer. It is not retried.
type RejectedError struct {
	StatusCode int
	Body       string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("statistics engine rejected report: %d %s", e.StatusCode, e.Body)
}

func (e *RejectedError) Unwrap() error {
	return ports.ErrReportRejected
}

type Client struct {
	baseURL         string
	http            *http.Client
	breaker         *gobreaker.CircuitBreaker
	limiter         *rate.Limiter
	maxRetries      uint64
	initialInterval time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errs.NewValueIsRequiredError("statistics engine url")
	}
	defaults := DefaultConfig(cfg.BaseURL)
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = defaults.InitialInterval
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = defaults.RatePerSecond
	}
	if cfg.Burst < 1 {
		cfg.Burst = defaults.Burst
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = defaults.BreakerFailures
	}
	if cfg.BreakerTimeout <= 0 {
		cfg.BreakerTimeout = defaults.BreakerTimeout
	}

	logger = logger.With("component", "statistics_client")
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "statistics-engine",
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			var rejected *RejectedError
			return err == nil || errors.As(err, &rejected)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		http:            &http.Client{Timeout: cfg.Timeout},
		breaker:         breaker,
		limiter:         rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		maxRetries:      cfg.MaxRetries,
		initialInterval: cfg.InitialInterval,
	}, nil
}

func (c *Client) SubmitTaskReport(ctx context.Context, report task.Report) error {
	body, err := json.Marshal(report)
	if err != nil {
		return err
	}
	if err = c.limiter.Wait(ctx); err != nil {
		return err
	}

	operation := func() error {
		_, execErr := c.breaker.Execute(func() (any, error) {
			return nil, c.post(ctx, body)
		})

		var rejected *RejectedError
		if errors.As(execErr, &rejected) ||
			errors.Is(execErr, gobreaker.ErrOpenState) ||
			errors.Is(execErr, gobreaker.ErrTooManyRequests) {
			return backoff.Permanent(execErr)
		}
		return execErr
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialInterval
	return backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+reportsPath, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	text, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return &RejectedError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(text))}
	}
	return fmt.Errorf("statistics engine answered %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
}
