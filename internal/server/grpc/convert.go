package grpc

import (
	"time"

	"github.com/dmitrijs2005/rewear/internal/api"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/dmitrijs2005/rewear/internal/server/services"
	"google.golang.org/protobuf/types/known/timestamppb"
)

func timestamp(t time.Time) *timestamppb.Timestamp {
	if t.IsZero() {
		return nil
	}
	return timestamppb.New(t)
}

func userToAPI(u *models.User) *api.User {
	if u == nil {
		return nil
	}
	return &api.User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Points:    u.Points,
		CreatedAt: timestamp(u.CreatedAt),
	}
}

func itemToAPI(it *models.Item, urls []string) *api.Item {
	if it == nil {
		return nil
	}
	return &api.Item{
		ID:             it.ID,
		Title:          it.Title,
		Description:    it.Description,
		Category:       it.Category,
		Type:           it.Type,
		Size:           it.Size,
		Condition:      it.Condition,
		Tags:           it.Tags,
		Images:         it.Images,
		ImageURLs:      urls,
		OwnerID:        it.OwnerID,
		Status:         string(it.Status),
		PointsRequired: it.PointsRequired,
		CreatedAt:      timestamp(it.CreatedAt),
	}
}

func swapToAPI(r *models.SwapRequest) *api.SwapRequest {
	if r == nil {
		return nil
	}
	return &api.SwapRequest{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		OwnerID:     r.OwnerID,
		ItemID:      r.ItemID,
		Type:        string(r.Type),
		Status:      string(r.Status),
		CreatedAt:   timestamp(r.CreatedAt),
		UpdatedAt:   timestamp(r.UpdatedAt),
	}
}

func transactionToAPI(t *models.PointTransaction) *api.PointTransaction {
	return &api.PointTransaction{
		ID:           t.ID,
		Amount:       t.Amount,
		BalanceAfter: t.BalanceAfter,
		Kind:         string(t.Kind),
		ReferenceID:  t.ReferenceID,
		Note:         t.Note,
		CreatedAt:    timestamp(t.CreatedAt),
	}
}

func tokensToAPI(p *services.TokenPair) *api.TokenResponse {
	resp := &api.TokenResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	if p.Session != nil {
		resp.UserID = p.Session.UserID
		resp.Role = string(p.Session.Role)
		resp.ExpiresAt = timestamp(p.Session.ExpiresAt)
	}
	return resp
}

func swapsToAPI(in []*models.SwapRequest) []*api.SwapRequest {
	out := make([]*api.SwapRequest, 0, len(in))
	for _, r := range in {
		out = append(out, swapToAPI(r))
	}
	return out
}

func draftFromAPI(req *api.CreateItemRequest) services.ItemDraft {
	return services.ItemDraft{
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		Type:           req.Type,
		Size:           req.Size,
		Condition:      req.Condition,
		Tags:           req.Tags,
		Images:         req.Images,
		PointsRequired: req.PointsRequired,
	}
}
