package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/signkeeper/internal/common"
	pb "github.com/dmitrijs2005/signkeeper/internal/proto"
	"github.com/dmitrijs2005/signkeeper/internal/server/auth"
)

type ctxKey string

const (
	identityKey  ctxKey = "identity"
	requestIDKey ctxKey = "request_id"
)

// RequestIDHeader carries a caller-chosen request id; one is generated when absent.
const RequestIDHeader = "x-request-id"

// publicMethods can be called without a token.
var publicMethods = map[string]struct{}{
	pb.FullMethod(pb.MethodSignin):           {},
	pb.FullMethod(pb.MethodSignup):           {},
	pb.FullMethod(pb.MethodSigninByProvider): {},
	pb.FullMethod(pb.MethodSignupProvider):   {},
}

func firstMetadata(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	requestID := firstMetadata(ctx, RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = context.WithValue(ctx, requestIDKey, requestID)
	_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "grpc request",
		"request_id", requestID,
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

// accessTokenInterceptor verifies the x-auth-token metadata of every
// non-public method and stores the caller identity in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	accessToken := firstMetadata(ctx, common.AuthTokenHeaderName)
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	identity, err := s.tokens.ParseToken(accessToken)
	if err != nil {
		return nil, toStatus(err)
	}
	if !identity.HasRole(common.RoleUser) {
		return nil, status.Error(codes.PermissionDenied, common.ErrForbidden.Error())
	}

	ctx = context.WithValue(ctx, identityKey, identity)

	return handler(ctx, req)
}

func identityFrom(ctx context.Context) *auth.Identity {
	id, _ := ctx.Value(identityKey).(*auth.Identity)
	return id
}
