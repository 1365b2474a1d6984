package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/itou/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type contextKey string

const queryStartKey contextKey = "otel_query_start"

// RegisterDBTracing installs the otelgorm plugin on db, plus callbacks that
// flag queries slower than the configured threshold on their span.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.DBTraceEnabled {
		return nil
	}

	// Registered ahead of otelgorm so the after hooks see the query span open
	slow := &slowQueryMarker{threshold: cfg.DBSlowQueryThresh}
	if err := slow.register(db); err != nil {
		return err
	}

	if err := db.Use(otelgorm.NewPlugin(
		otelgorm.WithDBName("itou"),
		otelgorm.WithoutQueryVariables(),
	)); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.DBSlowQueryThresh))
	return nil
}

type slowQueryMarker struct {
	threshold time.Duration
}

func (m *slowQueryMarker) register(db *gorm.DB) error {
	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("itou:slow_before_create", m.before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("itou:slow_after_create", m.after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("itou:slow_before_query", m.before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("itou:slow_after_query", m.after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("itou:slow_before_update", m.before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("itou:slow_after_update", m.after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("itou:slow_before_delete", m.before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("itou:slow_after_delete", m.after); err != nil {
		return err
	}
	if err := cb.Row().Before("gorm:row").Register("itou:slow_before_row", m.before); err != nil {
		return err
	}
	if err := cb.Row().After("gorm:row").Register("itou:slow_after_row", m.after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("itou:slow_before_raw", m.before); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("itou:slow_after_raw", m.after)
}

func (m *slowQueryMarker) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

func (m *slowQueryMarker) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > m.threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
