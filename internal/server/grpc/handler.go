package grpc

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"google.golang.org/protobuf/types/known/emptypb"
)

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*api.PingResponse, error) {
	return &api.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *api.RegisterRequest) (*api.RegisterResponse, error) {
	user, err := s.users.Register(ctx, req.Email, req.Password, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", user.ID)
	return &api.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *api.SignInRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}
	return tokensToAPI(tokens), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.TokenResponse, error) {
	tokens, err := s.users.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return tokensToAPI(tokens), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	if err := s.users.SignOut(ctx, auth.SessionFromContext(ctx)); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) Profile(ctx context.Context, _ *emptypb.Empty) (*api.ProfileResponse, error) {
	user, err := s.users.Profile(ctx, auth.SessionFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ProfileResponse{User: userToAPI(user)}, nil
}

func (s *GRPCServer) CreateItem(ctx context.Context, req *api.CreateItemRequest) (*api.ItemResponse, error) {
	item, err := s.items.CreateItem(ctx, auth.SessionFromContext(ctx), draftFromAPI(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(item, nil)}, nil
}

func (s *GRPCServer) GetItem(ctx context.Context, req *api.ItemIDRequest) (*api.ItemResponse, error) {
	view, err := s.items.GetItem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(view.Item, view.ImageURLs)}, nil
}

func (s *GRPCServer) ListItems(ctx context.Context, req *api.ListItemsRequest) (*api.ListItemsResponse, error) {
	filter := models.ItemFilter{
		Status:   models.ItemStatus(req.Status),
		OwnerID:  req.OwnerID,
		Category: req.Category,
		Tag:      req.Tag,
	}
	items, err := s.items.ListItems(ctx, auth.SessionFromContext(ctx), filter)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListItemsResponse{Items: make([]*api.Item, 0, len(items))}
	for _, it := range items {
		resp.Items = append(resp.Items, itemToAPI(it, nil))
	}
	return resp, nil
}

func (s *GRPCServer) ResubmitItem(ctx context.Context, req *api.ItemIDRequest) (*api.ItemResponse, error) {
	item, err := s.items.ResubmitItem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(item, nil)}, nil
}

func (s *GRPCServer) DeleteItem(ctx context.Context, req *api.ItemIDRequest) (*emptypb.Empty, error) {
	if err := s.items.DeleteOwnItem(ctx, auth.SessionFromContext(ctx), req.ItemID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) RequestSwap(ctx context.Context, req *api.ItemIDRequest) (*api.SwapRequestResponse, error) {
	sr, err := s.exchange.RequestSwap(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SwapRequestResponse{Request: swapToAPI(sr)}, nil
}

func (s *GRPCServer) Redeem(ctx context.Context, req *api.ItemIDRequest) (*api.RedeemResponse, error) {
	res, err := s.exchange.Redeem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RedeemResponse{Request: swapToAPI(res.Request), Balance: res.Balance}, nil
}

func (s *GRPCServer) RespondSwap(ctx context.Context, req *api.RespondSwapRequest) (*api.SwapRequestResponse, error) {
	sr, err := s.exchange.RespondSwap(ctx, auth.SessionFromContext(ctx), req.RequestID, req.Accept)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SwapRequestResponse{Request: swapToAPI(sr)}, nil
}

func (s *GRPCServer) ListSwapRequests(ctx context.Context, _ *emptypb.Empty) (*api.ListSwapRequestsResponse, error) {
	list, err := s.exchange.ListSwapRequests(ctx, auth.SessionFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ListSwapRequestsResponse{Requests: swapsToAPI(list)}, nil
}

func (s *GRPCServer) Ledger(ctx context.Context, req *api.LedgerRequest) (*api.LedgerResponse, error) {
	txs, err := s.exchange.Ledger(ctx, auth.SessionFromContext(ctx), int(req.Limit))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.LedgerResponse{Transactions: make([]*api.PointTransaction, 0, len(txs))}
	for _, t := range txs {
		resp.Transactions = append(resp.Transactions, transactionToAPI(t))
	}
	return resp, nil
}

func (s *GRPCServer) ApproveItem(ctx context.Context, req *api.ItemIDRequest) (*api.ItemResponse, error) {
	item, err := s.moderation.ApproveItem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(item, nil)}, nil
}

func (s *GRPCServer) RejectItem(ctx context.Context, req *api.ItemIDRequest) (*api.ItemResponse, error) {
	item, err := s.moderation.RejectItem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(item, nil)}, nil
}

func (s *GRPCServer) UnapproveItem(ctx context.Context, req *api.ItemIDRequest) (*api.ItemResponse, error) {
	item, err := s.moderation.UnapproveItem(ctx, auth.SessionFromContext(ctx), req.ItemID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ItemResponse{Item: itemToAPI(item, nil)}, nil
}

func (s *GRPCServer) AdminDeleteItem(ctx context.Context, req *api.ItemIDRequest) (*emptypb.Empty, error) {
	if err := s.moderation.DeleteItem(ctx, auth.SessionFromContext(ctx), req.ItemID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*api.ListUsersResponse, error) {
	users, err := s.moderation.ListUsers(ctx, auth.SessionFromContext(ctx))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListUsersResponse{Users: make([]*api.User, 0, len(users))}
	for _, u := range users {
		resp.Users = append(resp.Users, userToAPI(u))
	}
	return resp, nil
}

func (s *GRPCServer) SetUserRole(ctx context.Context, req *api.SetUserRoleRequest) (*emptypb.Empty, error) {
	if err := s.moderation.SetUserRole(ctx, auth.SessionFromContext(ctx), req.UserID, models.Role(req.Role)); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) AdjustPoints(ctx context.Context, req *api.AdjustPointsRequest) (*api.AdjustPointsResponse, error) {
	balance, err := s.moderation.AdjustPoints(ctx, auth.SessionFromContext(ctx), req.UserID, req.Delta, req.Reason)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.AdjustPointsResponse{Balance: balance}, nil
}

func (s *GRPCServer) AdminRejectSwap(ctx context.Context, req *api.RequestIDRequest) (*api.SwapRequestResponse, error) {
	sr, err := s.moderation.RejectSwapRequest(ctx, auth.SessionFromContext(ctx), req.RequestID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.SwapRequestResponse{Request: swapToAPI(sr)}, nil
}

func (s *GRPCServer) AdminListSwaps(ctx context.Context, req *api.ListSwapRequestsRequest) (*api.ListSwapRequestsResponse, error) {
	list, err := s.moderation.ListSwapRequests(ctx, auth.SessionFromContext(ctx), models.SwapStatus(req.Status))
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ListSwapRequestsResponse{Requests: swapsToAPI(list)}, nil
}
