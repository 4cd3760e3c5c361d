package logging

import (
	"context"
	"log/slog"
)

type (
	ctxKey           struct{}
	correlationIDKey struct{}
)

var defaultLogger = slog.Default()

// FromContext extracts the logger from context.
// Returns the default logger if no logger is found or ctx is nil.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return defaultLogger
	}

	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}

	return defaultLogger
}

// WithContext stores a logger in the context.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// WithCorrelationID records a correlation ID in the context and adds it to
// the context logger. Manager requests carry it as X-Correlation-ID.
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	logger := FromContext(ctx).With(slog.String("correlation_id", correlationID))
	ctx = context.WithValue(ctx, correlationIDKey{}, correlationID)
	return WithContext(ctx, logger)
}

// CorrelationIDFromContext returns the correlation ID, or "" if none is set.
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(correlationIDKey{}).(string)
	return id
}

// WithScope adds the context kind and deployment to the context logger.
func WithScope(ctx context.Context, kind, deploymentID string) context.Context {
	logger := FromContext(ctx).With(
		slog.String("context_kind", kind),
		slog.String("deployment_id", deploymentID),
	)
	return WithContext(ctx, logger)
}

// SetDefault sets the default logger used when no logger is in context.
func SetDefault(logger *slog.Logger) {
	defaultLogger = logger
	slog.SetDefault(logger)
}
