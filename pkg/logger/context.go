package logger

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// correlationIDKey marks the context storage slot for the correlation identifier.
type correlationIDKey struct{}

// WithCorrelationID stores a correlation identifier in ctx, minting a new
// one when id is empty.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}

	return context.WithValue(ctx, correlationIDKey{}, id)
}

// CorrelationIDFromContext returns the correlation identifier stored in ctx, or an empty string when absent.
func CorrelationIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}

	return ""
}

// Middleware injects a correlation identifier into the request context before delegating to the next handler.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxWithID := WithCorrelationID(r.Context(), "")
		next.ServeHTTP(w, r.WithContext(ctxWithID))
	})
}
