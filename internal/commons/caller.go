package commons

import (
	"context"

	"lynra/internal/ratelimit"
)

type callerKey struct{}

// WithCaller attaches the rate-limit identity of the client that triggered the work.
func WithCaller(ctx context.Context, caller string) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func Caller(ctx context.Context) string {
	if caller, ok := ctx.Value(callerKey{}).(string); ok && caller != "" {
		return caller
	}
	return ratelimit.UnknownCaller
}
