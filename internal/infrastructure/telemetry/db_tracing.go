package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include query variables; never in production
	SlowQueryThresh time.Duration // spans slower than this get db.slow_query
	DBName          string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

// DBTracingPlugin registers otelgorm plus slow query marking on a gorm DB.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a new database tracing plugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh == 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DBTracingPlugin{config: cfg, logger: logger}
}

type callbackRegistrar interface {
	Register(name string, fn func(*gorm.DB)) error
}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		p.logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithoutMetrics()}
	if p.config.DBName != "" {
		opts = append(opts, otelgorm.WithDBName(p.config.DBName))
	}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if p.config.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(p.config.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	hooks := []struct {
		registrar callbackRegistrar
		name      string
		fn        func(*gorm.DB)
	}{
		{cb.Create().Before("gorm:create"), "budget_timing:before_create", p.before},
		{cb.Query().Before("gorm:query"), "budget_timing:before_query", p.before},
		{cb.Update().Before("gorm:update"), "budget_timing:before_update", p.before},
		{cb.Row().Before("gorm:row"), "budget_timing:before_row", p.before},
		{cb.Raw().Before("gorm:raw"), "budget_timing:before_raw", p.before},
		{cb.Create().After("gorm:create").Before("otel:after:create"), "budget_timing:after_create", p.after},
		{cb.Query().After("gorm:query").Before("otel:after:query"), "budget_timing:after_query", p.after},
		{cb.Update().After("gorm:update").Before("otel:after:update"), "budget_timing:after_update", p.after},
		{cb.Row().After("gorm:row").Before("otel:after:row"), "budget_timing:after_row", p.after},
		{cb.Raw().After("gorm:raw").Before("otel:after:raw"), "budget_timing:after_raw", p.after},
	}
	for _, h := range hooks {
		if err := h.registrar.Register(h.name, h.fn); err != nil {
			return err
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

type contextKey string

const queryStartTimeKey contextKey = "budget_query_start_time"

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartTimeKey, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
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
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
	}
	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
