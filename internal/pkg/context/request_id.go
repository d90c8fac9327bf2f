package context

import "context"

type requestIDKey struct{}
type identityKey struct{}

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func GetRequestID(ctx context.Context) string {
	v := ctx.Value(requestIDKey{})
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// WithIdentity stores the caller identity resolved for this request.
func WithIdentity(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, identityKey{}, ip)
}

func GetIdentity(ctx context.Context) string {
	if s, ok := ctx.Value(identityKey{}).(string); ok {
		return s
	}
	return ""
}
