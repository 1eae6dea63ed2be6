package grpc

import (
	"context"
	"strings"
	"time"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// publicMethods can be called without an access token. A token that is
// present is still honoured so that owners see their own pending items.
var publicMethods = map[string]bool{
	api.FullMethod("Ping"):      true,
	api.FullMethod("Register"):  true,
	api.FullMethod("SignIn"):    true,
	api.FullMethod("Refresh"):   true,
	api.FullMethod("ListItems"): true,
	api.FullMethod("GetItem"):   true,
}

func metadataValue(ctx context.Context, key string) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(key); len(values) > 0 {
			return values[0]
		}
	}
	return ""
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	accessToken := metadataValue(ctx, common.AccessTokenHeaderName)

	if publicMethods[info.FullMethod] {
		if accessToken != "" {
			if sess, err := s.users.Authenticate(ctx, accessToken); err == nil {
				ctx = auth.WithSession(ctx, sess)
			}
		}
		return handler(ctx, req)
	}

	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	sess, err := s.users.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, toStatus(err)
	}

	return handler(auth.WithSession(ctx, sess), req)
}

func methodName(fullMethod string) string {
	if i := strings.LastIndex(fullMethod, "/"); i >= 0 {
		return fullMethod[i+1:]
	}
	return fullMethod
}

// observeInterceptor logs every call and records its latency and status
// code.
func (s *GRPCServer) observeInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	method := methodName(info.FullMethod)

	log := s.logger.With("method", method)
	if id := metadataValue(ctx, common.RequestIDHeaderName); id != "" {
		log = log.With("request_id", id)
	}

	resp, err := handler(ctx, req)

	elapsed := time.Since(start)
	code := status.Code(err)
	s.metrics.ObserveRPC(method, code.String(), elapsed)

	switch code {
	case codes.OK:
		log.Debug(ctx, "call completed", "elapsed", elapsed)
	case codes.Internal, codes.Unavailable, codes.Unknown:
		log.Error(ctx, "call failed", "code", code.String(), "error", err, "elapsed", elapsed)
	default:
		log.Info(ctx, "call rejected", "code", code.String(), "error", status.Convert(err).Message(), "elapsed", elapsed)
	}

	return resp, err
}
