package auth

import (
	"context"
	"errors"
)

// ErrRefreshNotImplemented is returned by the default Refresher.
var ErrRefreshNotImplemented = errors.New("session refresh not implemented")

// Refresher gets a fresh identity for a session whose token has expired.
// The expired token is passed as-is; its signature has already been checked.
type Refresher interface {
	Refresh(ctx context.Context, expiredToken string) (*ClerkUser, error)
}

// RefresherFunc adapts a plain function to Refresher.
type RefresherFunc func(ctx context.Context, expiredToken string) (*ClerkUser, error)

func (f RefresherFunc) Refresh(ctx context.Context, expiredToken string) (*ClerkUser, error) {
	return f(ctx, expiredToken)
}

type unimplementedRefresher struct{}

func (unimplementedRefresher) Refresh(context.Context, string) (*ClerkUser, error) {
	return nil, ErrRefreshNotImplemented
}
