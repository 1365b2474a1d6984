// Package bootstrap opens the infrastructure shared by the commands:
// configuration, logger, telemetry, database and optionally Redis.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/itou/backend/internal/infrastructure/cache"
	"github.com/itou/backend/internal/infrastructure/config"
	"github.com/itou/backend/internal/infrastructure/logger"
	"github.com/itou/backend/internal/infrastructure/persistence"
	"github.com/itou/backend/internal/infrastructure/telemetry"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Infra is the opened infrastructure of a command
type Infra struct {
	Config *config.Config
	Logger *zap.Logger
	DB     *persistence.Database
	Redis  *redis.Client
	tracer *telemetry.TracerProvider
	meter  *telemetry.MeterProvider
	logs   *telemetry.LoggerProvider
}

// Option configures Open
type Option func(*options)

type options struct {
	redis bool
}

// WithRedis also connects to Redis
func WithRedis() Option {
	return func(o *options) {
		o.redis = true
	}
}

// NewLogger builds the zap logger described by the log section
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	return logger.New(logger.Config{
		Level:  cfg.Level,
		Format: cfg.Format,
		Output: cfg.Output,
	})
}

// Open loads the configuration then connects everything a command needs.
// On error whatever was opened is closed again.
func Open(ctx context.Context, opts ...Option) (_ *Infra, err error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	log, err := NewLogger(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	infra := &Infra{Config: cfg, Logger: log}
	defer func() {
		if err != nil {
			infra.Close(context.Background())
		}
	}()

	infra.logs, err = telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	log = infra.logs.Bridge(log)
	infra.Logger = log

	infra.tracer, err = telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}
	infra.meter, err = telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		return nil, err
	}

	infra.DB, err = persistence.NewDatabase(cfg.Database, cfg.Log, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		return nil, err
	}
	if err := telemetry.RegisterDBTracing(infra.DB.DB, cfg.Telemetry, log); err != nil {
		return nil, fmt.Errorf("failed to enable database tracing: %w", err)
	}
	log.Info("Database connected",
		zap.String("host", cfg.Database.Host),
		zap.String("dbname", cfg.Database.DBName),
	)

	if o.redis {
		infra.Redis, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	return infra, nil
}

// Close releases the connections and flushes spans, metrics and logs
func (i *Infra) Close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	if i.tracer != nil {
		errs = append(errs, i.tracer.Shutdown(ctx))
	}
	if i.meter != nil {
		errs = append(errs, i.meter.Shutdown(ctx))
	}
	if err := errors.Join(errs...); err != nil {
		i.Logger.Error("Error closing infrastructure", zap.Error(err))
	}
	// last, so the records above still reach the collector
	if i.logs != nil {
		_ = i.logs.Shutdown(ctx)
	}
	_ = i.Logger.Sync()
}

// HealthChecks returns the readiness probes of the opened connections
func (i *Infra) HealthChecks() map[string]func(context.Context) error {
	checks := map[string]func(context.Context) error{
		"database": i.DB.Ping,
	}
	if i.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return i.Redis.Ping(ctx).Err()
		}
	}
	return checks
}
