// Package requestctx threads the per-request correlation ID through
// context so middleware, handlers and the access log agree on one
// value.
package requestctx

import "context"

type key int

const requestIDKey key = iota

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request ID, or "" outside a request.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
