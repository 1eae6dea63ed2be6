package client

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient is safe for concurrent use. Every api.Client method is
// available on it and returns mapped errors.
type GRPCClient struct {
	*api.Client

	conn    *grpc.ClientConn
	timeout time.Duration

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     func(*api.TokenResponse)
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{timeout: timeout}

	dial := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(c.errorInterceptor, c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dial...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.Client = api.NewClient(conn)
	return c, nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// OnTokens registers fn to be called whenever a new token pair is obtained,
// including automatic refreshes.
func (c *GRPCClient) OnTokens(fn func(*api.TokenResponse)) {
	c.mu.Lock()
	c.onTokens = fn
	c.mu.Unlock()
}

func (c *GRPCClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *GRPCClient) setTokens(resp *api.TokenResponse) {
	c.mu.Lock()
	if resp == nil {
		c.accessToken, c.refreshToken = "", ""
	} else {
		c.accessToken, c.refreshToken = resp.AccessToken, resp.RefreshToken
	}
	fn := c.onTokens
	c.mu.Unlock()

	if fn != nil && resp != nil {
		fn(resp)
	}
}

// Login signs in and keeps the returned tokens for later calls.
func (c *GRPCClient) Login(ctx context.Context, email, password string) (*api.TokenResponse, error) {
	resp, err := c.Client.SignIn(ctx, &api.SignInRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	c.setTokens(resp)
	return resp, nil
}

// Resume trades a stored refresh token for a fresh pair.
func (c *GRPCClient) Resume(ctx context.Context, refreshToken string) (*api.TokenResponse, error) {
	resp, err := c.Client.Refresh(ctx, &api.RefreshRequest{RefreshToken: refreshToken})
	if err != nil {
		return nil, err
	}
	c.setTokens(resp)
	return resp, nil
}

// Logout revokes the session on the server and forgets the tokens locally
// even when the server call fails.
func (c *GRPCClient) Logout(ctx context.Context) error {
	err := c.Client.SignOut(ctx)
	c.setTokens(nil)
	return err
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	accessToken, refreshToken := c.tokens()
	if accessToken != "" {
		ctx = withAccessToken(ctx, accessToken)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || refreshToken == "" || method == api.FullMethod("Refresh") {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	resp := new(api.TokenResponse)
	refreshReq := &api.RefreshRequest{RefreshToken: refreshToken}
	if err := invoker(ctx, api.FullMethod("Refresh"), refreshReq, resp, cc, grpc.CallContentSubtype(api.CodecName)); err != nil {
		return err
	}
	c.setTokens(resp)

	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func (c *GRPCClient) errorInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	ctx = metadata.AppendToOutgoingContext(ctx, common.RequestIDHeaderName, uuid.NewString())

	return mapError(invoker(ctx, method, req, reply, cc, opts...))
}
