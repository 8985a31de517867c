// Package requestctx carries the request identifier through context so the
// audit recorder and response envelopes can reference it without importing
// the HTTP layer.
package requestctx

import "context"

type key int

const requestIDKey key = iota

// WithRequestID stamps the request identifier onto the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the identifier set by the HTTP middleware, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
