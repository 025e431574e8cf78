package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const healthTimeout = 2 * time.Second

type handlers struct {
	db Pinger
}

func (h *handlers) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *handlers) me(c *gin.Context) {
	c.JSON(http.StatusOK, CurrentUser(c))
}

// refresh is where RequireUser sends anonymous callers. The browser-side
// identity SDK renews the session cookie and retries; once it is valid the
// caller is sent back to next.
func (h *handlers) refresh(c *gin.Context) {
	next := safeNext(c.Query("next"))

	if CurrentUser(c) != nil {
		c.Redirect(http.StatusTemporaryRedirect, next)
		return
	}

	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    "SESSION_REQUIRED",
		"message": "sign in or refresh the session",
		"next":    next,
	})
}

// safeNext only allows same-site absolute paths.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
