package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/images"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

// ModerationService is the admin surface. Every method requires a session
// with the admin role and fails with ErrForbidden otherwise.
type ModerationService struct {
	store  Store
	images images.Store
	log    logging.Logger
}

func NewModerationService(store Store, img images.Store, log logging.Logger) *ModerationService {
	return &ModerationService{store: store, images: img, log: log.With("module", "moderation")}
}

func (s *ModerationService) ApproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	return s.transition(ctx, sess, id, models.ItemPending, models.ItemApproved)
}

func (s *ModerationService) RejectItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	return s.transition(ctx, sess, id, models.ItemPending, models.ItemRejected)
}

// UnapproveItem withdraws an approved item back into the moderation queue.
func (s *ModerationService) UnapproveItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	return s.transition(ctx, sess, id, models.ItemApproved, models.ItemPending)
}

func (s *ModerationService) transition(ctx context.Context, sess *auth.Session, id string, from, to models.ItemStatus) (*models.Item, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	var item *models.Item
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.store.Repos.Items(tx)
		var err error
		item, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item.Status != from || !from.CanTransition(to) {
			return common.ErrInvalidTransition
		}
		if err := repo.TransitionStatus(ctx, id, from, to); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				return common.ErrInvalidTransition
			}
			return err
		}
		item.Status = to
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info(ctx, "item moderated", "item_id", id, "from", from, "to", to, "admin_id", sess.UserID)
	return item, nil
}

// DeleteItem removes any item that has not changed hands.
func (s *ModerationService) DeleteItem(ctx context.Context, sess *auth.Session, id string) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	return deleteItem(ctx, s.store, s.images, s.log, id, func(*models.Item) error { return nil })
}

func (s *ModerationService) ListUsers(ctx context.Context, sess *auth.Session) ([]*models.User, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	list, err := s.store.Repos.Users(s.store.DB).List(ctx)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// SetUserRole changes another user's role. Banning also revokes the user's
// tokens.
func (s *ModerationService) SetUserRole(ctx context.Context, sess *auth.Session, userID string, role models.Role) error {
	if err := requireAdmin(sess); err != nil {
		return err
	}
	if !role.Valid() {
		return validation("unknown role %q", role)
	}
	if userID == sess.UserID {
		return common.ErrForbidden
	}

	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		users := s.store.Repos.Users(tx)
		if _, err := users.GetForUpdate(ctx, userID); err != nil {
			return err
		}
		if err := users.SetRole(ctx, userID, role); err != nil {
			return err
		}
		if role != models.RoleBanned {
			return nil
		}
		if err := s.store.Repos.RefreshTokens(tx).DeleteByUser(ctx, userID); err != nil {
			return err
		}
		_, err := users.BumpSessionEpoch(ctx, userID)
		return err
	})
	if err != nil {
		return classify(err)
	}

	s.log.Info(ctx, "role changed", "user_id", userID, "role", role, "admin_id", sess.UserID)
	return nil
}

// AdjustPoints credits (delta > 0) or debits (delta < 0) a user's balance
// and returns the new balance. A debit below zero is refused.
func (s *ModerationService) AdjustPoints(ctx context.Context, sess *auth.Session, userID string, delta int64, reason string) (int64, error) {
	if err := requireAdmin(sess); err != nil {
		return 0, err
	}
	if delta == 0 {
		return 0, validation("delta must not be zero")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return 0, validation("reason is required")
	}

	var balance int64
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		balance, err = s.store.Repos.Users(tx).AdjustPoints(ctx, userID, delta)
		if err != nil {
			return err
		}
		_, err = s.store.Repos.PointTransactions(tx).Append(ctx, &models.PointTransaction{
			UserID:       userID,
			Amount:       delta,
			BalanceAfter: balance,
			Kind:         models.PointAdminAdjustment,
			ReferenceID:  sess.UserID,
			Note:         reason,
		})
		return err
	})
	if err != nil {
		return 0, classify(err)
	}

	s.log.Info(ctx, "points adjusted", "user_id", userID, "delta", delta, "admin_id", sess.UserID)
	return balance, nil
}

// RejectSwapRequest declines a pending request on the owner's behalf.
func (s *ModerationService) RejectSwapRequest(ctx context.Context, sess *auth.Session, requestID string) (*models.SwapRequest, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}

	var req *models.SwapRequest
	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		swaps := s.store.Repos.SwapRequests(tx)
		var err error
		req, err = swaps.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Status != models.SwapPending {
			return common.ErrInvalidTransition
		}
		if err := swaps.SetStatus(ctx, requestID, models.SwapPending, models.SwapRejected); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				return common.ErrInvalidTransition
			}
			return err
		}
		req.Status = models.SwapRejected
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return req, nil
}

// ListSwapRequests lists every request, optionally narrowed to one status.
func (s *ModerationService) ListSwapRequests(ctx context.Context, sess *auth.Session, status models.SwapStatus) ([]*models.SwapRequest, error) {
	if err := requireAdmin(sess); err != nil {
		return nil, err
	}
	list, err := s.store.Repos.SwapRequests(s.store.DB).List(ctx, models.SwapRequestFilter{Status: status})
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}
