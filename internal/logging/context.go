package logging

import (
	"context"

	"github.com/charmbracelet/log"
)

type contextKey struct{}

// WithLogger returns a copy of ctx carrying logger. Library packages pick
// it up with FromContext, so a command can redirect or silence their
// output without threading a logger through every call.
func WithLogger(ctx context.Context, logger *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger attached by WithLogger, or Default.
func FromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*log.Logger); ok && logger != nil {
			return logger
		}
	}
	return Default()
}
