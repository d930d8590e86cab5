package composables

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
)

var (
	ErrNoLogger = errors.New("logger not found")
)

type loggerKey struct{}

// WithLogger returns a new context carrying the logger entry.
func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// UseLogger returns the logger from the context.
// Panics if the logger is not found.
func UseLogger(ctx context.Context) *logrus.Entry {
	logger, ok := TryUseLogger(ctx)
	if !ok {
		panic(ErrNoLogger)
	}
	return logger
}

// TryUseLogger returns the logger from the context.
// If the logger is not found, the second return value will be false.
func TryUseLogger(ctx context.Context) (*logrus.Entry, bool) {
	logger, ok := ctx.Value(loggerKey{}).(*logrus.Entry)
	return logger, ok && logger != nil
}

// LoggerOr returns the context logger, falling back to an entry of fallback.
func LoggerOr(ctx context.Context, fallback *logrus.Logger) *logrus.Entry {
	if logger, ok := TryUseLogger(ctx); ok {
		return logger
	}
	if fallback == nil {
		fallback = logrus.StandardLogger()
	}
	return logrus.NewEntry(fallback)
}
