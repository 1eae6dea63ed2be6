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

// ItemDraft is the owner-supplied part of a new listing.
type ItemDraft struct {
	Title          string
	Description    string
	Category       string
	Type           string
	Size           string
	Condition      string
	Tags           []string
	Images         []string
	PointsRequired int64
}

// ItemView is an item plus readable URLs for its images, in the same order
// as Item.Images.
type ItemView struct {
	Item      *models.Item
	ImageURLs []string
}

type ItemService struct {
	store  Store
	images images.Store
	log    logging.Logger
}

func NewItemService(store Store, img images.Store, log logging.Logger) *ItemService {
	return &ItemService{store: store, images: img, log: log.With("module", "items")}
}

func (s *ItemService) CreateItem(ctx context.Context, sess *auth.Session, draft ItemDraft) (*models.Item, error) {
	if err := requireSession(sess); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(draft.Title)
	if title == "" {
		return nil, validation("title is required")
	}
	if draft.PointsRequired < 0 {
		return nil, validation("points required must not be negative")
	}
	keys := make([]string, 0, len(draft.Images))
	for _, k := range draft.Images {
		k = strings.TrimSpace(k)
		if k == "" {
			return nil, validation("empty image key")
		}
		keys = append(keys, k)
	}

	item := &models.Item{
		Title:          title,
		Description:    strings.TrimSpace(draft.Description),
		Category:       strings.TrimSpace(draft.Category),
		Type:           strings.TrimSpace(draft.Type),
		Size:           strings.TrimSpace(draft.Size),
		Condition:      strings.TrimSpace(draft.Condition),
		Tags:           normalizeTags(draft.Tags),
		Images:         keys,
		OwnerID:        sess.UserID,
		PointsRequired: draft.PointsRequired,
	}

	err := s.store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		created, err := s.store.Repos.Items(tx).Create(ctx, item)
		if err != nil {
			return err
		}
		item = created
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}

	s.log.Info(ctx, "item listed", "item_id", item.ID, "owner_id", item.OwnerID, "points", item.PointsRequired)
	return item, nil
}

// GetItem returns an item with presigned image URLs. Items that are not
// public (pending or rejected) are visible to their owner and admins only;
// everyone else gets NotFound. sess may be nil.
func (s *ItemService) GetItem(ctx context.Context, sess *auth.Session, id string) (*ItemView, error) {
	item, err := s.store.Repos.Items(s.store.DB).Get(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if !visible(sess, item) {
		return nil, common.ErrorNotFound
	}

	view := &ItemView{Item: item, ImageURLs: make([]string, 0, len(item.Images))}
	for _, key := range item.Images {
		url, err := s.images.PresignGet(ctx, key)
		if err != nil {
			s.log.Warn(ctx, "presign failed", "item_id", item.ID, "key", key, "error", err)
			url = ""
		}
		view.ImageURLs = append(view.ImageURLs, url)
	}
	return view, nil
}

// ListItems browses the catalog. Callers other than admins see approved
// items only, unless they list their own.
func (s *ItemService) ListItems(ctx context.Context, sess *auth.Session, filter models.ItemFilter) ([]*models.Item, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, validation("unknown status %q", filter.Status)
	}
	filter.Tag = strings.ToLower(strings.TrimSpace(filter.Tag))

	own := sess != nil && filter.OwnerID != "" && filter.OwnerID == sess.UserID
	if !sess.IsAdmin() && !own {
		filter.Status = models.ItemApproved
	}

	list, err := s.store.Repos.Items(s.store.DB).List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}

// ResubmitItem puts a rejected item back into the moderation queue.
func (s *ItemService) ResubmitItem(ctx context.Context, sess *auth.Session, id string) (*models.Item, error) {
	if err := requireSession(sess); err != nil {
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
		if item.OwnerID != sess.UserID {
			return common.ErrForbidden
		}
		if item.Status != models.ItemRejected {
			return common.ErrInvalidTransition
		}
		if err := repo.TransitionStatus(ctx, id, models.ItemRejected, models.ItemPending); err != nil {
			return err
		}
		item.Status = models.ItemPending
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return item, nil
}

// DeleteOwnItem removes one of the caller's listings and its images.
// Swapped items stay as the record of the exchange.
func (s *ItemService) DeleteOwnItem(ctx context.Context, sess *auth.Session, id string) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	return deleteItem(ctx, s.store, s.images, s.log, id, func(item *models.Item) error {
		if item.OwnerID != sess.UserID {
			return common.ErrForbidden
		}
		return nil
	})
}

func visible(sess *auth.Session, item *models.Item) bool {
	switch item.Status {
	case models.ItemApproved, models.ItemSwapped:
		return true
	}
	return sess.IsAdmin() || (sess != nil && sess.UserID == item.OwnerID)
}

// deleteItem rejects the item's pending swap requests and removes the item
// in one transaction, then deletes its image objects. Swap requests are kept
// as history. Object removal is best effort: a failure is logged, the item
// stays gone.
func deleteItem(ctx context.Context, store Store, img images.Store, log logging.Logger, id string, check func(*models.Item) error) error {
	var keys []string
	err := store.Tx.WithinTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := store.Repos.Items(tx)
		item, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := check(item); err != nil {
			return err
		}
		if item.Status == models.ItemSwapped {
			return common.ErrInvalidTransition
		}
		keys = item.Images
		if _, err := store.Repos.SwapRequests(tx).RejectPending(ctx, id, ""); err != nil {
			return err
		}
		return repo.Delete(ctx, id)
	})
	if err != nil {
		return classify(err)
	}

	if err := img.Delete(ctx, keys); err != nil && !errors.Is(err, context.Canceled) {
		log.Warn(ctx, "image cleanup failed", "item_id", id, "keys", len(keys), "error", err)
	}
	log.Info(ctx, "item deleted", "item_id", id)
	return nil
}
