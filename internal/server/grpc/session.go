package grpc

import (
	"context"

	"github.com/saolsen/gameplay-computer/internal/server/users"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	sessionServiceName = "gameplay.v1.Session"
	sessionMeMethod    = "/" + sessionServiceName + "/Me"
)

// SessionServer is the gameplay.v1.Session service.
type SessionServer interface {
	// Me returns the stored row for the caller, like GET /me.
	Me(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: sessionServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Me", Handler: sessionMeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "gameplay/v1/session.proto",
}

func sessionMeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Me(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: sessionMeMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SessionServer).Me(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func (s *GRPCServer) Me(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {

	claims, err := RequireUser(ctx)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Sync(ctx, *claims)
	if err != nil {
		s.logger.Error(ctx, "user sync failed", "error", err, "clerk_id", claims.ClerkID)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return userStruct(user)

}

func userStruct(u *users.User) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":         u.ID,
		"clerk_id":   u.ClerkID,
		"username":   u.Username,
		"first_name": u.FirstName,
		"last_name":  u.LastName,
		"email":      u.Email,
	})
}
