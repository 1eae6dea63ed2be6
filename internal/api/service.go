package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "rewear.v1.ReWear"

// FullMethod returns the "/service/method" path for a method name.
func FullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// Server is implemented by the gRPC transport of the ReWear server.
type Server interface {
	Ping(context.Context, *emptypb.Empty) (*PingResponse, error)

	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	SignIn(context.Context, *SignInRequest) (*TokenResponse, error)
	Refresh(context.Context, *RefreshRequest) (*TokenResponse, error)
	SignOut(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Profile(context.Context, *emptypb.Empty) (*ProfileResponse, error)

	CreateItem(context.Context, *CreateItemRequest) (*ItemResponse, error)
	GetItem(context.Context, *ItemIDRequest) (*ItemResponse, error)
	ListItems(context.Context, *ListItemsRequest) (*ListItemsResponse, error)
	ResubmitItem(context.Context, *ItemIDRequest) (*ItemResponse, error)
	DeleteItem(context.Context, *ItemIDRequest) (*emptypb.Empty, error)

	RequestSwap(context.Context, *ItemIDRequest) (*SwapRequestResponse, error)
	Redeem(context.Context, *ItemIDRequest) (*RedeemResponse, error)
	RespondSwap(context.Context, *RespondSwapRequest) (*SwapRequestResponse, error)
	ListSwapRequests(context.Context, *emptypb.Empty) (*ListSwapRequestsResponse, error)
	Ledger(context.Context, *LedgerRequest) (*LedgerResponse, error)

	ApproveItem(context.Context, *ItemIDRequest) (*ItemResponse, error)
	RejectItem(context.Context, *ItemIDRequest) (*ItemResponse, error)
	UnapproveItem(context.Context, *ItemIDRequest) (*ItemResponse, error)
	AdminDeleteItem(context.Context, *ItemIDRequest) (*emptypb.Empty, error)
	ListUsers(context.Context, *emptypb.Empty) (*ListUsersResponse, error)
	SetUserRole(context.Context, *SetUserRoleRequest) (*emptypb.Empty, error)
	AdjustPoints(context.Context, *AdjustPointsRequest) (*AdjustPointsResponse, error)
	AdminRejectSwap(context.Context, *RequestIDRequest) (*SwapRequestResponse, error)
	AdminListSwaps(context.Context, *ListSwapRequestsRequest) (*ListSwapRequestsResponse, error)
}

func unary[Req, Resp any](name string, call func(Server, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(Server), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(Server), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the ReWear service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", Server.Ping),
		unary("Register", Server.Register),
		unary("SignIn", Server.SignIn),
		unary("Refresh", Server.Refresh),
		unary("SignOut", Server.SignOut),
		unary("Profile", Server.Profile),
		unary("CreateItem", Server.CreateItem),
		unary("GetItem", Server.GetItem),
		unary("ListItems", Server.ListItems),
		unary("ResubmitItem", Server.ResubmitItem),
		unary("DeleteItem", Server.DeleteItem),
		unary("RequestSwap", Server.RequestSwap),
		unary("Redeem", Server.Redeem),
		unary("RespondSwap", Server.RespondSwap),
		unary("ListSwapRequests", Server.ListSwapRequests),
		unary("Ledger", Server.Ledger),
		unary("ApproveItem", Server.ApproveItem),
		unary("RejectItem", Server.RejectItem),
		unary("UnapproveItem", Server.UnapproveItem),
		unary("AdminDeleteItem", Server.AdminDeleteItem),
		unary("ListUsers", Server.ListUsers),
		unary("SetUserRole", Server.SetUserRole),
		unary("AdjustPoints", Server.AdjustPoints),
		unary("AdminRejectSwap", Server.AdminRejectSwap),
		unary("AdminListSwaps", Server.AdminListSwaps),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rewear.v1",
}

// RegisterServer attaches srv to a gRPC service registrar.
func RegisterServer(r grpc.ServiceRegistrar, srv Server) {
	r.RegisterService(&ServiceDesc, srv)
}
