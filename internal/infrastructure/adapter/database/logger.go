package database

import (
	"context"
	"errors"
	"time"

	coreport "github.com/bookkeeper-app/bookkeeper/internal/domain/port/core"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// slowQueryThreshold is when a query gets logged at warn level
const slowQueryThreshold = 200 * time.Millisecond

// GormLogger bridges gorm's logger interface to the application logger
type GormLogger struct {
	logger coreport.Logger
}

// NewGormLogger creates a gorm logger backed by the application logger
func NewGormLogger(logger coreport.Logger) *GormLogger {
	return &GormLogger{logger: logger}
}

// LogMode is a no-op; level filtering is handled by the application logger
func (l *GormLogger) LogMode(gormlogger.LogLevel) gormlogger.Interface {
	return l
}

// Info logs informational messages from gorm
func (l *GormLogger) Info(_ context.Context, msg string, args ...any) {
	l.logger.Info(msg, map[string]any{"args": args})
}

// Warn logs warnings from gorm
func (l *GormLogger) Warn(_ context.Context, msg string, args ...any) {
	l.logger.Warn(msg, map[string]any{"args": args})
}

// Error logs errors from gorm
func (l *GormLogger) Error(_ context.Context, msg string, args ...any) {
	l.logger.Error(msg, map[string]any{"args": args})
}

// Trace logs completed SQL statements with their latency
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := map[string]any{
		"elapsed": elapsed.String(),
		"rows":    rows,
		"sql":     sql,
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		fields["error"] = err.Error()
		l.logger.Error("query failed", fields)
	case elapsed > slowQueryThreshold:
		l.logger.Warn("slow query", fields)
	default:
		l.logger.Debug("query", fields)
	}
}
