package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"fulfillment/internal/adapters/out/events"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/tasklock"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string
	LogLevel   slog.Level

	MaxTaskSize          int
	LockHardTTL          time.Duration
	LockIdleNoProgress   time.Duration
	LockIdleWithProgress time.Duration
	RestrictedWarehouses string

	RedisAddr          string
	RedisEventsChannel string
	EventBuffer        int

	StatsEngineURL        string
	StatsDispatchSchedule string
	StatsDispatchBatch    int
	StatsMaxAttempts      int
	StatsRetryDelay       time.Duration
	StatsDispatchLease    time.Duration
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "fulfillment")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_TASK_SIZE", services.DefaultMaxTaskSize)
	v.SetDefault("LOCK_HARD_TTL", tasklock.DefaultHardTTL)
	v.SetDefault("LOCK_IDLE_NO_PROGRESS", tasklock.DefaultIdleNoProgress)
	v.SetDefault("LOCK_IDLE_WITH_PROGRESS", tasklock.DefaultIdleWithProgress)
	v.SetDefault("RESTRICTED_WAREHOUSES", "")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_EVENTS_CHANNEL", events.DefaultChannel)
	v.SetDefault("EVENT_BUFFER", 1024)
	v.SetDefault("STATS_ENGINE_URL", "")
	v.SetDefault("STATS_DISPATCH_SCHEDULE", jobs.DefaultDispatchSchedule)
	v.SetDefault("STATS_DISPATCH_BATCH", 50)
	v.SetDefault("STATS_MAX_ATTEMPTS", commands.DefaultMaxDispatchAttempts)
	v.SetDefault("STATS_RETRY_DELAY", commands.DefaultDispatchRetryDelay)
	v.SetDefault("STATS_DISPATCH_LEASE", commands.DefaultDispatchLease)
}

// LoadConfig reads an optional .env file and then the process environment.
// Environment variables win over .env entries, and both win over defaults.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(v.GetString("LOG_LEVEL")))); err != nil {
		return Config{}, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}

	cfg := Config{
		HTTPPort:   v.GetString("HTTP_PORT"),
		DBHost:     v.GetString("DB_HOST"),
		DBPort:     v.GetString("DB_PORT"),
		DBUser:     v.GetString("DB_USER"),
		DBPassword: v.GetString("DB_PASSWORD"),
		DBName:     v.GetString("DB_NAME"),
		DBSslMode:  v.GetString("DB_SSLMODE"),
		LogLevel:   level,

		MaxTaskSize:          v.GetInt("MAX_TASK_SIZE"),
		LockHardTTL:          v.GetDuration("LOCK_HARD_TTL"),
		LockIdleNoProgress:   v.GetDuration("LOCK_IDLE_NO_PROGRESS"),
		LockIdleWithProgress: v.GetDuration("LOCK_IDLE_WITH_PROGRESS"),
		RestrictedWarehouses: v.GetString("RESTRICTED_WAREHOUSES"),

		RedisAddr:          v.GetString("REDIS_ADDR"),
		RedisEventsChannel: v.GetString("REDIS_EVENTS_CHANNEL"),
		EventBuffer:        v.GetInt("EVENT_BUFFER"),

		StatsEngineURL:        v.GetString("STATS_ENGINE_URL"),
		StatsDispatchSchedule: v.GetString("STATS_DISPATCH_SCHEDULE"),
		StatsDispatchBatch:    v.GetInt("STATS_DISPATCH_BATCH"),
		StatsMaxAttempts:      v.GetInt("STATS_MAX_ATTEMPTS"),
		StatsRetryDelay:       v.GetDuration("STATS_RETRY_DELAY"),
		StatsDispatchLease:    v.GetDuration("STATS_DISPATCH_LEASE"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the domain would refuse later, so the process
// fails at startup instead of on the first request.
func (c Config) Validate() error {
	if c.HTTPPort == "" {
		return errs.NewValueIsRequiredError("HTTP_PORT")
	}
	if _, err := c.LockPolicy(); err != nil {
		return err
	}
	if _, err := services.NewSplitter(c.MaxTaskSize); err != nil {
		return err
	}
	if _, err := c.RolePolicy(); err != nil {
		return err
	}
	if c.EventBuffer < 1 {
		return errs.NewValueIsOutOfRangeError("EVENT_BUFFER", c.EventBuffer, 1, "unbounded")
	}
	if c.StatsDispatchBatch < 1 {
		return errs.NewValueIsOutOfRangeError("STATS_DISPATCH_BATCH", c.StatsDispatchBatch, 1, "unbounded")
	}
	if err := c.DispatchPolicy().Validate(); err != nil {
		return err
	}
	return nil
}

func (c Config) LockPolicy() (tasklock.Policy, error) {
	return tasklock.NewPolicy(c.LockHardTTL, c.LockIdleNoProgress, c.LockIdleWithProgress)
}

func (c Config) DispatchPolicy() commands.DispatchPolicy {
	return commands.DispatchPolicy{
		MaxAttempts: c.StatsMaxAttempts,
		Lease:       c.StatsDispatchLease,
		RetryDelay:  c.StatsRetryDelay,
	}
}

func (c Config) RolePolicy() (actor.Policy, error) {
	return actor.ParsePolicy(c.RestrictedWarehouses)
}
