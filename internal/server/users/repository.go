package users

import "context"

type Repository interface {
	// GetByClerkID returns common.ErrorNotFound when no row matches.
	GetByClerkID(ctx context.Context, clerkID string) (*User, error)
	// Upsert inserts user or overwrites the profile of the row with the
	// same ClerkID. It does not set user.ID.
	Upsert(ctx context.Context, user *User) error
}
