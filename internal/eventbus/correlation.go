package eventbus

import "context"

type correlationKey struct{}

// WithCorrelation tags ctx with the request's correlation id so events
// published downstream can be traced back to their cause.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey{}, id)
}

// CorrelationID extracts the correlation id from ctx, or "" when the request
// was never tagged.
func CorrelationID(ctx context.Context) string {
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
