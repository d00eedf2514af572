package grpc

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/signkeeper/internal/common"
)

// toStatus maps service errors onto gRPC status codes. Messages are the
// sentinel texts only, never wrapped causes.
func toStatus(err error) error {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		return status.Error(codes.Unauthenticated, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrTokenExpired):
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case errors.Is(err, common.ErrInvalidToken):
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	case errors.Is(err, common.ErrForbidden):
		return status.Error(codes.PermissionDenied, common.ErrForbidden.Error())
	case errors.Is(err, common.ErrUserNotFound):
		return status.Error(codes.NotFound, common.ErrUserNotFound.Error())
	case errors.Is(err, common.ErrUserExists):
		return status.Error(codes.AlreadyExists, common.ErrUserExists.Error())
	case errors.Is(err, common.ErrUnsupportedProvider):
		return status.Error(codes.InvalidArgument, common.ErrUnsupportedProvider.Error())
	case errors.Is(err, common.ErrSocialAuth):
		return status.Error(codes.Unavailable, common.ErrSocialAuth.Error())
	case errors.Is(err, common.ErrorValidation):
		return status.Error(codes.InvalidArgument, common.ErrorValidation.Error())
	default:
		return status.Error(codes.Internal, common.ErrorInternal.Error())
	}
}
