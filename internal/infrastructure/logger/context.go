package logger

import (
	"context"

	"go.uber.org/zap"
)

// Context keys are unexported types so other packages cannot collide with
// them by storing plain strings.
type loggerKey struct{}
type requestIDKey struct{}

// WithContext attaches a logger to the context.
func WithContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, log)
}

// FromContext returns the logger stored in the context, or a no-op logger
// when none was attached.
func FromContext(ctx context.Context) *zap.Logger {
	if log, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok {
		return log
	}
	return zap.NewNop()
}

// WithRequestID stores the request identifier in the context and attaches a
// logger enriched with it, so every line logged downstream carries the id.
func WithRequestID(ctx context.Context, log *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	enriched := log.With(zap.String("request_id", requestID))
	ctx = context.WithValue(ctx, requestIDKey{}, requestID)
	return WithContext(ctx, enriched), enriched
}

// RequestIDFromContext returns the request identifier stored by
// WithRequestID, or the empty string.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
