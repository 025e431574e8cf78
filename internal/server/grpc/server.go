package grpc

import (
	"context"
	"errors"
	"net"

	"github.com/saolsen/gameplay-computer/internal/logging"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"github.com/saolsen/gameplay-computer/internal/server/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// SessionVerifier resolves the caller's identity from forwarded cookies.
type SessionVerifier interface {
	CurrentUser(ctx context.Context, cookies auth.CookieStore) *auth.ClerkUser
}

// UserSyncer stores verified identities and returns their rows.
type UserSyncer interface {
	Sync(ctx context.Context, claims auth.ClerkUser) (*users.User, error)
}

type GRPCServer struct {
	address  string
	logger   logging.Logger
	verifier SessionVerifier
	users    UserSyncer
	health   *health.Server
}

func NewGRPCServer(a string, l logging.Logger, v SessionVerifier, us UserSyncer) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   l.With("module", "grpc_server"),
		verifier: v,
		users:    us,
		health:   health.NewServer(),
	}
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on listen until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.sessionInterceptor))

	srv.RegisterService(&sessionServiceDesc, s)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}

	return nil
}
