// Package db holds the gorm settings shared by every SQL dialect.
package db

import (
	"context"
	"fmt"
	"time"

	logSDK "github.com/Laisky/go-utils/v6/log"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const (
	defaultMaxLoggedParamLength = 256
	defaultSlowThreshold        = 200 * time.Millisecond
)

// NewGormConfig returns the gorm config used by all dialects.
//
// Writes are always issued inside an explicit transaction, so gorm's implicit
// per-statement transaction is disabled.
func NewGormConfig(logger logSDK.Logger) *gorm.Config {
	return &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 NewGormLogger(logger),
	}
}

// NewGormLogger routes gorm logs to logger and truncates oversized SQL params.
func NewGormLogger(logger logSDK.Logger) gormLogger.Interface {
	base := gormLogger.New(gormWriter{logger: logger}, gormLogger.Config{
		SlowThreshold:             defaultSlowThreshold,
		LogLevel:                  gormLogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	return newTruncatingParamsLogger(base)
}

// gormWriter adapts logSDK.Logger to gorm's printf-style writer.
type gormWriter struct {
	logger logSDK.Logger
}

// Printf writes one gorm log line.
func (w gormWriter) Printf(format string, args ...any) {
	if w.logger == nil {
		return
	}
	w.logger.Debug(fmt.Sprintf(format, args...))
}

// truncatingParamsLogger filters oversized SQL parameters before GORM prints SQL logs.
type truncatingParamsLogger struct {
	gormLogger.Interface
	maxLoggedParamLength int
}

// ParamsFilter replaces attachment payloads with a length summary.
func (l *truncatingParamsLogger) ParamsFilter(_ context.Context, sql string, params ...any) (string, []any) {
	if len(params) == 0 {
		return sql, params
	}

	return sql, sanitizeLoggedSQLParams(l.maxLoggedParamLength, params...)
}

// newTruncatingParamsLogger wraps a GORM logger with parameter truncation.
func newTruncatingParamsLogger(base gormLogger.Interface) gormLogger.Interface {
	return &truncatingParamsLogger{
		Interface:            base,
		maxLoggedParamLength: defaultMaxLoggedParamLength,
	}
}

// sanitizeLoggedSQLParams applies sanitizeLoggedSQLParam to every param.
func sanitizeLoggedSQLParams(maxLoggedParamLength int, params ...any) []any {
	filtered := make([]any, len(params))
	for idx, param := range params {
		filtered[idx] = sanitizeLoggedSQLParam(param, maxLoggedParamLength)
	}
	return filtered
}

// sanitizeLoggedSQLParam converts oversized parameter values into compact log-safe summaries.
func sanitizeLoggedSQLParam(param any, maxLoggedParamLength int) any {
	switch value := param.(type) {
	case string:
		if len(value) > maxLoggedParamLength {
			return fmt.Sprintf("<string:len=%d,truncated>", len(value))
		}
		return value
	case []byte:
		// content blobs are never worth printing
		return fmt.Sprintf("<bytes:len=%d,truncated>", len(value))
	default:
		return param
	}
}
