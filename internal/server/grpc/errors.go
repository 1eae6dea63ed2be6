package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rewear/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrNotAuthenticated, codes.Unauthenticated},
	{common.ErrorUnauthorized, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
	{common.ErrTokenExpired, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrForbidden, codes.PermissionDenied},
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrAlreadyRequested, codes.AlreadyExists},
	{common.ErrItemUnavailable, codes.FailedPrecondition},
	{common.ErrInsufficientPoints, codes.FailedPrecondition},
	{common.ErrSelfTransactionDenied, codes.FailedPrecondition},
	{common.ErrInvalidTransition, codes.FailedPrecondition},
	{common.ErrPersistence, codes.Unavailable},
	{context.Canceled, codes.Canceled},
	{context.DeadlineExceeded, codes.DeadlineExceeded},
}

// toStatus converts a service error into a gRPC status. The message is the
// sentinel text so clients can map it back; validation errors keep their
// detail.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	if errors.Is(err, common.ErrorValidation) {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, e.err.Error())
		}
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
