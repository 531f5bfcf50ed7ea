package telemetry

import (
	"context"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database query tracing.
type DBTracingConfig struct {
	Enabled bool
	// LogFullSQL includes query variables in spans. Development only; the
	// ledger carries operator names and free-text reasons.
	LogFullSQL      bool
	SlowQueryThresh time.Duration // queries above this get a slow_query event
	DBName          string
}

// DefaultDBTracingConfig returns the default database tracing configuration.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		Enabled:         false,
		LogFullSQL:      false,
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "postgresql",
	}
}

// DBTracing instruments a GORM DB with otelgorm spans plus slow-query and
// error marking callbacks.
type DBTracing struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracing creates a DBTracing with the given configuration.
func NewDBTracing(cfg DBTracingConfig, logger *zap.Logger) *DBTracing {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracing{config: cfg, logger: logger}
}

// Register installs the otelgorm plugin and the timing callbacks on db.
// It is a no-op when tracing is disabled.
func (t *DBTracing) Register(db *gorm.DB) error {
	if !t.config.Enabled {
		t.logger.Debug("Database tracing disabled")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(t.config.DBName)}
	if !t.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := t.registerTimingCallbacks(db); err != nil {
		return err
	}

	t.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", t.config.LogFullSQL),
		zap.Duration("slow_query_threshold", t.config.SlowQueryThresh),
	)
	return nil
}

// registerTimingCallbacks wraps every GORM operation with a start-time marker
// and a span enrichment pass that runs after otelgorm.
func (t *DBTracing) registerTimingCallbacks(db *gorm.DB) error {
	registrations := []func() error{
		func() error {
			return db.Callback().Create().Before("gorm:create").Register("otel_timing:before_create", markQueryStart)
		},
		func() error {
			return db.Callback().Create().After("gorm:create").Register("otel_timing:after_create", t.enrichSpan)
		},
		func() error {
			return db.Callback().Query().Before("gorm:query").Register("otel_timing:before_query", markQueryStart)
		},
		func() error {
			return db.Callback().Query().After("gorm:query").Register("otel_timing:after_query", t.enrichSpan)
		},
		func() error {
			return db.Callback().Update().Before("gorm:update").Register("otel_timing:before_update", markQueryStart)
		},
		func() error {
			return db.Callback().Update().After("gorm:update").Register("otel_timing:after_update", t.enrichSpan)
		},
		func() error {
			return db.Callback().Delete().Before("gorm:delete").Register("otel_timing:before_delete", markQueryStart)
		},
		func() error {
			return db.Callback().Delete().After("gorm:delete").Register("otel_timing:after_delete", t.enrichSpan)
		},
		func() error {
			return db.Callback().Row().Before("gorm:row").Register("otel_timing:before_row", markQueryStart)
		},
		func() error {
			return db.Callback().Row().After("gorm:row").Register("otel_timing:after_row", t.enrichSpan)
		},
		func() error {
			return db.Callback().Raw().Before("gorm:raw").Register("otel_timing:before_raw", markQueryStart)
		},
		func() error {
			return db.Callback().Raw().After("gorm:raw").Register("otel_timing:after_raw", t.enrichSpan)
		},
	}

	for _, register := range registrations {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

type dbContextKey string

const queryStartKey dbContextKey = "query_start_time"

func markQueryStart(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey, time.Now())
	}
}

// enrichSpan adds row counts and table names to the active database span,
// marks real errors, and flags slow queries.
func (t *DBTracing) enrichSpan(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}

	span := trace.SpanFromContext(ctx)
	if span == nil || !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}

	// ErrRecordNotFound is an expected outcome, not a failure
	if db.Error != nil && db.Error != gorm.ErrRecordNotFound {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	if start, ok := ctx.Value(queryStartKey).(time.Time); ok {
		elapsed := time.Since(start)
		if elapsed > t.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
			span.AddEvent("slow_query", trace.WithAttributes(
				attribute.Int64("duration_ms", elapsed.Milliseconds()),
				attribute.Int64("threshold_ms", t.config.SlowQueryThresh.Milliseconds()),
			))
		}
	}
}
