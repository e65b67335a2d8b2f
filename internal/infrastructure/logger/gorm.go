package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Template saves carry full element JSON; cap what ends up in the log line.
const maxLoggedSQL = 2048

// GormLogger adapts zap to GORM's logger interface
type GormLogger struct {
	log           *zap.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
	skipNotFound  bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides the slow query threshold
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(gl *GormLogger) {
		gl.slowThreshold = threshold
	}
}

// WithIgnoreRecordNotFoundError controls whether ErrRecordNotFound is logged.
// Missing templates and jobs are ordinary control flow here, so the default
// skips them.
func WithIgnoreRecordNotFoundError(ignore bool) GormLoggerOption {
	return func(gl *GormLogger) {
		gl.skipNotFound = ignore
	}
}

// NewGormLogger builds a GORM logger backed by zap
func NewGormLogger(log *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	gl := &GormLogger{
		log:           log.Named("gorm"),
		level:         level,
		slowThreshold: 200 * time.Millisecond,
		skipNotFound:  true,
	}
	for _, opt := range opts {
		opt(gl)
	}
	return gl
}

// LogMode implements gormlogger.Interface
func (gl *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *gl
	clone.level = level
	return &clone
}

// Info implements gormlogger.Interface
func (gl *GormLogger) Info(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Info {
		gl.log.Info(fmt.Sprintf(msg, data...))
	}
}

// Warn implements gormlogger.Interface
func (gl *GormLogger) Warn(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Warn {
		gl.log.Warn(fmt.Sprintf(msg, data...))
	}
}

// Error implements gormlogger.Interface
func (gl *GormLogger) Error(_ context.Context, msg string, data ...any) {
	if gl.level >= gormlogger.Error {
		gl.log.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace logs each executed statement with its latency and row count
func (gl *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if gl.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	if len(sql) > maxLoggedSQL {
		sql = sql[:maxLoggedSQL] + "..."
	}

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}
	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}

	switch {
	case err != nil && gl.level >= gormlogger.Error:
		if gl.skipNotFound && errors.Is(err, gormlogger.ErrRecordNotFound) {
			return
		}
		gl.log.Error("SQL Error", append(fields, zap.Error(err))...)

	case gl.slowThreshold != 0 && elapsed > gl.slowThreshold && gl.level >= gormlogger.Warn:
		gl.log.Warn(fmt.Sprintf("SLOW SQL >= %v", gl.slowThreshold), fields...)

	case gl.level >= gormlogger.Info:
		gl.log.Debug("SQL Query", fields...)
	}
}

// MapGormLogLevel maps the config log level onto GORM's
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info", "debug":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
