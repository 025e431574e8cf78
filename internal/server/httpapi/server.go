// Package httpapi exposes the session-aware HTTP endpoints: the current user,
// the refresh landing page, health and metrics.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/saolsen/gameplay-computer/internal/server/metrics"
	"github.com/saolsen/gameplay-computer/internal/server/users"
)

// SessionVerifier resolves the caller's identity from request cookies.
type SessionVerifier interface {
	CurrentUser(ctx context.Context, cookies auth.CookieStore) *auth.ClerkUser
}

// UserSyncer stores verified identities and returns their rows.
type UserSyncer interface {
	Sync(ctx context.Context, claims auth.ClerkUser) (*users.User, error)
}

// Pinger checks database reachability.
type Pinger interface {
	PingContext(ctx context.Context) error
}

const shutdownTimeout = 5 * time.Second

type Server struct {
	address string
	engine  *gin.Engine
	logger  logging.Logger
}

func NewServer(address string, l logging.Logger, v SessionVerifier, us UserSyncer, db Pinger, allowedOrigins []string) *Server {
	logger := l.With("module", "http_server")

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))

	if len(allowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = allowedOrigins
		corsConfig.AllowCredentials = true
		engine.Use(cors.New(corsConfig))
	}

	h := &handlers{db: db}

	engine.GET("/healthz", h.health)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	session := engine.Group("/", Session(v, us, logger))
	session.GET("/refresh", h.refresh)
	session.GET("/me", RequireUser(), h.me)

	return &Server{address: address, engine: engine, logger: logger}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
