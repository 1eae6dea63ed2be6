package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/logging"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/metrics"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

// RedeemResult reports a completed redemption.
type RedeemResult struct {
	Request *models.SwapRequest
	// Balance is the requester's balance after the debit.
	Balance int64
}

// ExchangeService moves items between members, either by a swap request the
// owner answers later or by an immediate points redemption.
type ExchangeService struct {
	store   Store
	log     logging.Logger
	metrics *metrics.Metrics
}

func NewExchangeService(store Store, log logging.Logger, m *metrics.Metrics) *ExchangeService {
	return &ExchangeService{store: store, log: log.With("module", "exchange"), metrics: m}
}

// RequestSwap records the caller's interest in an approved item. The item
// itself is left untouched.
func (s *ExchangeService) RequestSwap(ctx context.Context, sess *auth.Session, itemID string) (req *models.SwapRequest, err error) {
	defer func() { s.metrics.ObserveExchange("swap", outcome(err)) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		item, err := s.store.Repos.Items(tx).GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.Status != models.ItemApproved {
			return common.ErrItemUnavailable
		}
		if item.OwnerID == sess.UserID {
			return common.ErrSelfTransactionDenied
		}

		req, err = s.store.Repos.SwapRequests(tx).Create(ctx, &models.SwapRequest{
			RequesterID: sess.UserID,
			OwnerID:     item.OwnerID,
			ItemID:      item.ID,
			Type:        models.SwapTypeSwap,
			Status:      models.SwapPending,
		})
		return err
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info(ctx, "swap requested", "request_id", req.ID, "item_id", itemID, "requester_id", sess.UserID)
	return req, nil
}

// Redeem buys an approved item with points. The item lock, both balance
// changes, the status change, the accepted request and the two ledger rows
// commit together or not at all.
func (s *ExchangeService) Redeem(ctx context.Context, sess *auth.Session, itemID string) (res *RedeemResult, err error) {
	defer func() { s.metrics.ObserveExchange("redeem", outcome(err)) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	var price int64
	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		items := s.store.Repos.Items(tx)
		users := s.store.Repos.Users(tx)

		item, err := items.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item.Status != models.ItemApproved {
			return common.ErrItemUnavailable
		}
		if item.OwnerID == sess.UserID {
			return common.ErrSelfTransactionDenied
		}

		requester, owner, err := lockUsers(ctx, s.store.Repos, tx, sess.UserID, item.OwnerID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrNotAuthenticated
			}
			return err
		}
		if requester.Role == models.RoleBanned {
			return common.ErrNotAuthenticated
		}

		price = item.PointsRequired
		if requester.Points < price {
			return common.ErrInsufficientPoints
		}

		debitBalance, creditBalance := requester.Points, owner.Points
		if price > 0 {
			if debitBalance, err = users.AdjustPoints(ctx, requester.ID, -price); err != nil {
				return err
			}
			if creditBalance, err = users.AdjustPoints(ctx, owner.ID, price); err != nil {
				return err
			}
		}

		if err := items.TransitionStatus(ctx, item.ID, models.ItemApproved, models.ItemSwapped); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				return common.ErrItemUnavailable
			}
			return err
		}

		swaps := s.store.Repos.SwapRequests(tx)
		req, err := swaps.Create(ctx, &models.SwapRequest{
			RequesterID: requester.ID,
			OwnerID:     owner.ID,
			ItemID:      item.ID,
			Type:        models.SwapTypeRedeem,
			Status:      models.SwapAccepted,
		})
		if err != nil {
			return err
		}
		// the item is gone, so are the open swap offers for it
		if _, err := swaps.RejectPending(ctx, item.ID, req.ID); err != nil {
			return err
		}

		if price > 0 {
			ledger := s.store.Repos.PointTransactions(tx)
			if _, err := ledger.Append(ctx, &models.PointTransaction{
				UserID: requester.ID, Amount: -price, BalanceAfter: debitBalance,
				Kind: models.PointRedeemDebit, ReferenceID: req.ID,
			}); err != nil {
				return err
			}
			if _, err := ledger.Append(ctx, &models.PointTransaction{
				UserID: owner.ID, Amount: price, BalanceAfter: creditBalance,
				Kind: models.PointRedeemCredit, ReferenceID: req.ID,
			}); err != nil {
				return err
			}
		}

		res = &RedeemResult{Request: req, Balance: debitBalance}
		return nil
	})
	if err != nil {
		err = classify(err)
		if errors.Is(err, common.ErrPersistence) {
			s.log.Error(ctx, "redeem failed", "item_id", itemID, "requester_id", sess.UserID, "error", err)
		}
		return nil, err
	}

	s.metrics.AddPointsTransferred(price)
	s.log.Info(ctx, "item redeemed", "item_id", itemID, "requester_id", sess.UserID, "points", price)
	return res, nil
}

// RespondSwap lets an item owner accept or decline a pending swap request.
// Accepting swaps the item and declines every other pending request for it.
func (s *ExchangeService) RespondSwap(ctx context.Context, sess *auth.Session, requestID string, accept bool) (req *models.SwapRequest, err error) {
	defer func() { s.metrics.ObserveExchange("respond", outcome(err)) }()

	if err := requireSession(sess); err != nil {
		return nil, err
	}

	err = s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		swaps := s.store.Repos.SwapRequests(tx)

		var err error
		req, err = swaps.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.OwnerID != sess.UserID {
			return common.ErrForbidden
		}
		if req.Type != models.SwapTypeSwap || req.Status != models.SwapPending {
			return common.ErrInvalidTransition
		}

		if !accept {
			if err := swaps.SetStatus(ctx, req.ID, models.SwapPending, models.SwapRejected); err != nil {
				return err
			}
			req.Status = models.SwapRejected
			return nil
		}

		items := s.store.Repos.Items(tx)
		item, err := items.GetForUpdate(ctx, req.ItemID)
		if err != nil {
			return err
		}
		if item.Status != models.ItemApproved {
			return common.ErrItemUnavailable
		}
		if err := items.TransitionStatus(ctx, item.ID, models.ItemApproved, models.ItemSwapped); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				return common.ErrItemUnavailable
			}
			return err
		}
		if err := swaps.SetStatus(ctx, req.ID, models.SwapPending, models.SwapAccepted); err != nil {
			if errors.Is(err, common.ErrVersionConflict) {
				return common.ErrInvalidTransition
			}
			return err
		}
		req.Status = models.SwapAccepted

		if _, err := swaps.RejectPending(ctx, item.ID, req.ID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info(ctx, "swap answered", "request_id", req.ID, "status", req.Status)
	return req, nil
}

// ListSwapRequests returns the requests the caller made or received.
func (s *ExchangeService) ListSwapRequests(ctx context.Context, sess *auth.Session) ([]*models.SwapRequest, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	list, err := s.store.Repos.SwapRequests(s.store.DB).List(ctx, models.SwapRequestFilter{ParticipantID: sess.UserID})
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// Ledger returns the caller's point history, newest first.
func (s *ExchangeService) Ledger(ctx context.Context, sess *auth.Session, limit int) ([]*models.PointTransaction, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}
	list, err := s.store.Repos.PointTransactions(s.store.DB).ListByUser(ctx, sess.UserID, limit)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}
