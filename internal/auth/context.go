package auth

import "context"

type contextKey string

const ownerIDKey contextKey = "owner_id"

// WithOwnerID returns a context carrying the authenticated owner ID.
func WithOwnerID(ctx context.Context, ownerID string) context.Context {
	return context.WithValue(ctx, ownerIDKey, ownerID)
}

// GetOwnerID returns the owner ID placed in the context by the
// middleware, or "" when the request was not scoped.
func GetOwnerID(ctx context.Context) string {
	if val, ok := ctx.Value(ownerIDKey).(string); ok {
		return val
	}
	return ""
}
