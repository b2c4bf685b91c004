package logger

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Environment selects the zap preset used by NewLogger.
type Environment string

const (
	Development Environment = "development"
	Production  Environment = "production"
)

// RequestID is the field name carrying the request identifier.
const RequestID = "request_id"

// ErrInvalidLevel is returned when the configured level cannot be parsed.
var ErrInvalidLevel = fmt.Errorf("invalid log level")

// Logger wraps zap with context aware helpers.
type Logger struct {
	l *zap.Logger
}

// NewLogger builds a logger for env; an empty level keeps the preset default.
func NewLogger(env Environment, level string) (*Logger, error) {
	var config zap.Config
	switch env {
	case Development:
		config = zap.NewDevelopmentConfig()
	default:
		config = zap.NewProductionConfig()
	}
	if level != "" {
		var lvl zapcore.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidLevel, level, err)
		}
		config.Level = zap.NewAtomicLevelAt(lvl)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{l: logger}, nil
}

// NewNop returns a logger discarding everything.
func NewNop() *Logger {
	return &Logger{l: zap.NewNop()}
}

// New wraps an existing zap logger.
func New(l *zap.Logger) *Logger {
	return &Logger{l: l}
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, addRequestID(ctx, fields)...)
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, addRequestID(ctx, fields)...)
}

// With returns a child logger carrying fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{l: l.l.With(fields...)}
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func addRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	if ctx == nil {
		return fields
	}
	if id, ok := GetRequestID(ctx); ok {
		return append(fields, zap.String(RequestID, id))
	}
	return fields
}
