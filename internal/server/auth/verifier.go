// Package auth verifies the identity provider's session cookie and turns it
// into a ClerkUser.
//
// Authentication failures never reach the caller as errors: CurrentUser
// returns nil for every failure, and only unexpected failures are logged.
package auth

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/saolsen/gameplay-computer/internal/common"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/metrics"
)

// ErrNoPublicKey is returned by NewVerifier when no key material is given.
var ErrNoPublicKey = errors.New("no public key configured")

// CookieStore looks cookies up by name. *http.Request satisfies it; a missing
// cookie is reported with http.ErrNoCookie.
type CookieStore interface {
	Cookie(name string) (*http.Cookie, error)
}

// Verifier checks RS256 session tokens against one public key.
// It is safe for concurrent use.
type Verifier struct {
	key       *rsa.PublicKey
	parser    *jwt.Parser
	refresher Refresher
	logger    logging.Logger
}

// Option configures a Verifier.
type Option func(*verifierOptions)

type verifierOptions struct {
	leeway    time.Duration
	refresher Refresher
}

// WithLeeway tolerates clock skew when checking exp, nbf and iat.
func WithLeeway(d time.Duration) Option {
	return func(o *verifierOptions) { o.leeway = d }
}

// WithRefresher sets what handles expired sessions. Without it expired
// sessions are treated as anonymous.
func WithRefresher(r Refresher) Option {
	return func(o *verifierOptions) { o.refresher = r }
}

// NewVerifier parses publicKeyPEM (PKIX "PUBLIC KEY" or PKCS#1) once and
// returns a Verifier that reuses it for every token.
func NewVerifier(publicKeyPEM string, logger logging.Logger, opts ...Option) (*Verifier, error) {
	if strings.TrimSpace(publicKeyPEM) == "" {
		return nil, ErrNoPublicKey
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	o := verifierOptions{refresher: unimplementedRefresher{}}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = logging.Nop{}
	}

	return &Verifier{
		key: key,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithLeeway(o.leeway),
		),
		refresher: o.refresher,
		logger:    logger.With("module", "auth"),
	}, nil
}

// Verify checks the signature, the registered time claims and the profile
// claims of token. Errors can be matched with errors.Is against
// jwt.ErrTokenExpired, jwt.ErrTokenSignatureInvalid, jwt.ErrTokenMalformed
// and ErrMissingClaim.
func (v *Verifier) Verify(token string) (*ClerkUser, error) {
	claims := &sessionClaims{}

	parsed, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims.user(), nil
}

// CurrentUser returns the user identified by the __session cookie, or nil
// when there is no cookie or it does not verify.
func (v *Verifier) CurrentUser(ctx context.Context, cookies CookieStore) *ClerkUser {
	cookie, err := cookies.Cookie(common.SessionCookieName)
	if err != nil || cookie.Value == "" {
		metrics.SessionVerifications.WithLabelValues(metrics.SessionAnonymous).Inc()
		return nil
	}

	user, err := v.Verify(cookie.Value)
	switch {
	case err == nil:
		metrics.SessionVerifications.WithLabelValues(metrics.SessionOK).Inc()
		return user
	case errors.Is(err, jwt.ErrTokenExpired):
		metrics.SessionVerifications.WithLabelValues(metrics.SessionExpired).Inc()
		return v.refresh(ctx, cookie.Value)
	default:
		metrics.SessionVerifications.WithLabelValues(metrics.SessionInvalid).Inc()
		v.logger.Warn(ctx, "session verification failed", "error", err)
		return nil
	}
}

func (v *Verifier) refresh(ctx context.Context, token string) *ClerkUser {
	user, err := v.refresher.Refresh(ctx, token)
	if err != nil {
		if !errors.Is(err, ErrRefreshNotImplemented) {
			v.logger.Warn(ctx, "session refresh failed", "error", err)
		}
		return nil
	}
	return user
}
