package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingClaim is reported when a verified token lacks one of the
// required profile claims.
var ErrMissingClaim = errors.New("missing required claim")

// ClerkUser is the identity carried by a verified session token.
type ClerkUser struct {
	ClerkID   string `json:"clerk_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
}

// sessionClaims is the token payload as decoded. Pointers tell a missing or
// null claim apart from an empty string; a claim of any other JSON type fails
// decoding outright.
type sessionClaims struct {
	jwt.RegisteredClaims
	ClerkID   *string `json:"clerk_id"`
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Username  *string `json:"username"`
}

// Validate implements jwt.ClaimsValidator. The parser runs it after the
// registered claims (exp, nbf, iat) have been checked.
func (c *sessionClaims) Validate() error {
	var missing []string
	for _, f := range []struct {
		name  string
		value *string
	}{
		{"clerk_id", c.ClerkID},
		{"email", c.Email},
		{"first_name", c.FirstName},
		{"last_name", c.LastName},
		{"username", c.Username},
	} {
		if f.value == nil {
			missing = append(missing, f.name)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingClaim, strings.Join(missing, ", "))
	}
	return nil
}

// user must only be called after Validate succeeded.
func (c *sessionClaims) user() *ClerkUser {
	return &ClerkUser{
		ClerkID:   *c.ClerkID,
		Email:     *c.Email,
		FirstName: *c.FirstName,
		LastName:  *c.LastName,
		Username:  *c.Username,
	}
}
