package pkglog

import "context"

type correlationKey struct{}

const invalidCorrelationID = "[invalid_chain_id]"

// GetCorrelationID returns the correlation ID stored in the context, or a
// placeholder when none was set.
func GetCorrelationID(ctx context.Context) string {
	if cid, ok := ctx.Value(correlationKey{}).(string); ok {
		return cid
	}
	return invalidCorrelationID
}

// SetCorrelationID stores a correlation ID into the context.
func SetCorrelationID(ctx context.Context, cid string) context.Context {
	return context.WithValue(ctx, correlationKey{}, cid)
}
