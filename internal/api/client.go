package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// Client is a typed stub over a gRPC connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

var empty = &emptypb.Empty{}

func (c *Client) Ping(ctx context.Context, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, "Ping", empty, opts)
}

func (c *Client) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, "Register", in, opts)
}

func (c *Client) SignIn(ctx context.Context, in *SignInRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "SignIn", in, opts)
}

func (c *Client) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, "Refresh", in, opts)
}

func (c *Client) SignOut(ctx context.Context, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "SignOut", empty, opts)
	return err
}

func (c *Client) Profile(ctx context.Context, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, "Profile", empty, opts)
}

func (c *Client) CreateItem(ctx context.Context, in *CreateItemRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "CreateItem", in, opts)
}

func (c *Client) GetItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "GetItem", in, opts)
}

func (c *Client) ListItems(ctx context.Context, in *ListItemsRequest, opts ...grpc.CallOption) (*ListItemsResponse, error) {
	return invoke[ListItemsResponse](ctx, c.cc, "ListItems", in, opts)
}

func (c *Client) ResubmitItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "ResubmitItem", in, opts)
}

func (c *Client) DeleteItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "DeleteItem", in, opts)
	return err
}

func (c *Client) RequestSwap(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*SwapRequestResponse, error) {
	return invoke[SwapRequestResponse](ctx, c.cc, "RequestSwap", in, opts)
}

func (c *Client) Redeem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*RedeemResponse, error) {
	return invoke[RedeemResponse](ctx, c.cc, "Redeem", in, opts)
}

func (c *Client) RespondSwap(ctx context.Context, in *RespondSwapRequest, opts ...grpc.CallOption) (*SwapRequestResponse, error) {
	return invoke[SwapRequestResponse](ctx, c.cc, "RespondSwap", in, opts)
}

func (c *Client) ListSwapRequests(ctx context.Context, opts ...grpc.CallOption) (*ListSwapRequestsResponse, error) {
	return invoke[ListSwapRequestsResponse](ctx, c.cc, "ListSwapRequests", empty, opts)
}

func (c *Client) Ledger(ctx context.Context, in *LedgerRequest, opts ...grpc.CallOption) (*LedgerResponse, error) {
	return invoke[LedgerResponse](ctx, c.cc, "Ledger", in, opts)
}

func (c *Client) ApproveItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "ApproveItem", in, opts)
}

func (c *Client) RejectItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "RejectItem", in, opts)
}

func (c *Client) UnapproveItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) (*ItemResponse, error) {
	return invoke[ItemResponse](ctx, c.cc, "UnapproveItem", in, opts)
}

func (c *Client) AdminDeleteItem(ctx context.Context, in *ItemIDRequest, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "AdminDeleteItem", in, opts)
	return err
}

func (c *Client) ListUsers(ctx context.Context, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, "ListUsers", empty, opts)
}

func (c *Client) SetUserRole(ctx context.Context, in *SetUserRoleRequest, opts ...grpc.CallOption) error {
	_, err := invoke[emptypb.Empty](ctx, c.cc, "SetUserRole", in, opts)
	return err
}

func (c *Client) AdjustPoints(ctx context.Context, in *AdjustPointsRequest, opts ...grpc.CallOption) (*AdjustPointsResponse, error) {
	return invoke[AdjustPointsResponse](ctx, c.cc, "AdjustPoints", in, opts)
}

func (c *Client) AdminRejectSwap(ctx context.Context, in *RequestIDRequest, opts ...grpc.CallOption) (*SwapRequestResponse, error) {
	return invoke[SwapRequestResponse](ctx, c.cc, "AdminRejectSwap", in, opts)
}

func (c *Client) AdminListSwaps(ctx context.Context, in *ListSwapRequestsRequest, opts ...grpc.CallOption) (*ListSwapRequestsResponse, error) {
	return invoke[ListSwapRequestsResponse](ctx, c.cc, "AdminListSwaps", in, opts)
}
