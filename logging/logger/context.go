package logger

import "context"

type ctxKey string

const traceKey = "trace_id"

const traceCtxKey ctxKey = traceKey

// WithTraceID returns a context carrying the given trace ID.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceCtxKey, traceID)
}

// getTraceID extracts the trace ID from the context, if any.
func getTraceID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(traceCtxKey).(string); ok {
		return v
	}
	return ""
}
