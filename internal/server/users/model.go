// Package users keeps a local row for every identity that signs in, so the
// rest of the application can reference users by a numeric id.
package users

import (
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/uptrace/bun"
)

// User is a signed-in identity as stored in the users table.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	ClerkID   string `bun:"clerk_id,notnull,unique" json:"clerk_id"`
	Username  string `bun:"username,notnull" json:"username"`
	FirstName string `bun:"first_name,notnull" json:"first_name"`
	LastName  string `bun:"last_name,notnull" json:"last_name"`
	Email     string `bun:"email,notnull" json:"email"`
}

// FromClaims builds an unsaved User from verified session claims.
func FromClaims(c auth.ClerkUser) *User {
	return &User{
		ClerkID:   c.ClerkID,
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
	}
}

// sameProfile reports whether u and o carry the same identity data, ignoring ID.
func (u *User) sameProfile(o *User) bool {
	return u.ClerkID == o.ClerkID &&
		u.Username == o.Username &&
		u.FirstName == o.FirstName &&
		u.LastName == o.LastName &&
		u.Email == o.Email
}
