package httpapi

import (
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/saolsen/gameplay-computer/internal/server/users"
)

const (
	// ContextUserKey holds the *users.User of a signed-in caller.
	ContextUserKey = "auth.user"

	requestIDHeader = "X-Request-ID"
)

// CurrentUser returns the signed-in user set by Session, or nil.
func CurrentUser(c *gin.Context) *users.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*users.User)
	return u
}

// Session resolves the __session cookie. Signed-in callers get their users
// row under ContextUserKey and their claims in the request context;
// everyone else passes through anonymously.
func Session(v SessionVerifier, us UserSyncer, logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		claims := v.CurrentUser(ctx, c.Request)
		if claims == nil {
			c.Next()
			return
		}

		user, err := us.Sync(ctx, *claims)
		if err != nil {
			logger.Error(ctx, "user sync failed", "error", err, "clerk_id", claims.ClerkID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code":    "USER_SYNC_FAILED",
				"message": "could not load the signed-in user",
			})
			return
		}

		c.Set(ContextUserKey, user)
		c.Request = c.Request.WithContext(auth.WithUser(ctx, claims))
		c.Next()
	}
}

// RequireUser sends anonymous callers to /refresh, remembering where they
// were going.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusTemporaryRedirect, "/refresh?next="+url.QueryEscape(c.Request.URL.Path))
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info(c.Request.Context(), "request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
