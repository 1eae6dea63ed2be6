package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrUnavailable = errors.New("server unavailable")

// sentinels are recognised by their text in the status message.
var sentinels = []error{
	common.ErrNotAuthenticated,
	common.ErrorUnauthorized,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrRefreshTokenExpired,
	common.ErrForbidden,
	common.ErrorNotFound,
	common.ErrorAlreadyExists,
	common.ErrAlreadyRequested,
	common.ErrItemUnavailable,
	common.ErrInsufficientPoints,
	common.ErrSelfTransactionDenied,
	common.ErrInvalidTransition,
	common.ErrPersistence,
	common.ErrorInternal,
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	if st.Code() == codes.InvalidArgument {
		detail := strings.TrimPrefix(st.Message(), common.ErrorValidation.Error()+": ")
		return fmt.Errorf("%w: %s", common.ErrorValidation, detail)
	}

	for _, s := range sentinels {
		if st.Message() == s.Error() {
			return s
		}
	}

	switch st.Code() {
	case codes.Unauthenticated:
		return common.ErrNotAuthenticated
	case codes.PermissionDenied:
		return common.ErrForbidden
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
