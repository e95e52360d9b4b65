package services

import "context"

type contextKey string

const (
	correlationIDKey contextKey = "correlation_id"
	clientIPKey      contextKey = "client_ip"
)

// WithRequestContext stores the request's trace id and client address for audit records.
func WithRequestContext(ctx context.Context, correlationID, clientIP string) context.Context {
	ctx = context.WithValue(ctx, correlationIDKey, correlationID)
	return context.WithValue(ctx, clientIPKey, clientIP)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if correlationID, ok := ctx.Value(correlationIDKey).(string); ok {
		return correlationID
	}

	return ""
}

func getClientIP(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if ip, ok := ctx.Value(clientIPKey).(string); ok {
		return ip
	}

	return ""
}

// CorrelationID returns the trace id stored by WithRequestContext
func CorrelationID(ctx context.Context) string {
	return getCorrelationID(ctx)
}

// ClientIP returns the caller address stored by WithRequestContext
func ClientIP(ctx context.Context) string {
	return getClientIP(ctx)
}
