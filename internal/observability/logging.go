// Package observability provides logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
)

// Logger wraps slog.Logger with the engagement-specific warning path.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps an existing slog logger.
func NewLogger(l *slog.Logger) *Logger {
	return &Logger{Logger: l}
}

type contextKey string

// correlationKey carries the request's correlation ID through the context so
// warnings emitted deep in a transaction can be tied back to the request.
const correlationKey contextKey = "correlation_id"

// WithCorrelationID returns a new context carrying the given correlation ID.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

// ExtractCorrelationID retrieves the correlation ID from the context, or ""
// outside a request (CLI tools, tests).
func ExtractCorrelationID(ctx context.Context) string {
	if id, ok := ctx.Value(correlationKey).(string); ok {
		return id
	}
	return ""
}

// InconsistencyWarn logs a counter-consistency warning. These never fail the
// user-visible operation; they exist so operators can spot the earlier bug
// that produced the drift, and the correlation ID points at the request that
// tripped over it.
func (l *Logger) InconsistencyWarn(ctx context.Context, msg string, attrs ...any) {
	if id := ExtractCorrelationID(ctx); id != "" {
		attrs = append(attrs, slog.String("correlation_id", id))
	}
	l.WarnContext(ctx, msg, attrs...)
}
