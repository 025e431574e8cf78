package auth

import "context"

type ctxKey struct{}

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user *ClerkUser) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the user stored by WithUser, or nil.
func UserFromContext(ctx context.Context) *ClerkUser {
	u, _ := ctx.Value(ctxKey{}).(*ClerkUser)
	return u
}
