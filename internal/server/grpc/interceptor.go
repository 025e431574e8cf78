// Package grpc serves the gRPC endpoint. Browser-facing proxies forward the
// Cookie header as "cookie" metadata; the session interceptor turns it into
// an auth.ClerkUser on the request context.
package grpc

import (
	"context"
	"net/http"
	"strings"

	"github.com/saolsen/gameplay-computer/internal/common"
	"github.com/saolsen/gameplay-computer/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const healthServicePrefix = "/grpc.health.v1.Health/"

// metadataCookies exposes Cookie header lines from metadata as an auth.CookieStore.
type metadataCookies []string

func (m metadataCookies) Cookie(name string) (*http.Cookie, error) {
	r := http.Request{Header: http.Header{"Cookie": m}}
	return r.Cookie(name)
}

func (s *GRPCServer) sessionInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if strings.HasPrefix(info.FullMethod, healthServicePrefix) {
		return handler(ctx, req)
	}

	var cookies metadataCookies
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		cookies = md.Get(common.CookieMetadataKey)
	}

	if user := s.verifier.CurrentUser(ctx, cookies); user != nil {
		ctx = auth.WithUser(ctx, user)
	}

	return handler(ctx, req)
}

// RequireUser returns the caller set by the session interceptor, or an
// Unauthenticated status for anonymous callers.
func RequireUser(ctx context.Context) (*auth.ClerkUser, error) {
	user := auth.UserFromContext(ctx)
	if user == nil {
		return nil, status.Error(codes.Unauthenticated, common.ErrorUnauthorized.Error())
	}
	return user, nil
}
