package logger

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var ErrLoggerNotFound = errors.New("logger not found in context")

type contextKey struct{}

// global is set by the application; fallback serves library callers that never set one.
var global atomic.Pointer[Logger]

var fallback = sync.OnceValue(func() *Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	l, err := cfg.Build()
	if err != nil {
		return NewNop()
	}
	return New(l.Named("workpro"))
})

// NewContext returns a copy of ctx carrying l.
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger stored by NewContext.
func FromContext(ctx context.Context) (*Logger, error) {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*Logger); ok && l != nil {
			return l, nil
		}
	}
	return nil, ErrLoggerNotFound
}

// SetGlobalLogger replaces the process wide logger; nil restores the fallback.
func SetGlobalLogger(l *Logger) {
	global.Store(l)
}

// Log resolves the context logger, then the global one, then the fallback.
func Log(ctx context.Context) *Logger {
	if l, err := FromContext(ctx); err == nil {
		return l
	}
	if l := global.Load(); l != nil {
		return l
	}
	return fallback()
}
