// Package items persists clothing listings and their moderation status.
package items

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type Repository interface {
	// Create inserts item with status pending and fills ID and CreatedAt.
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Get(ctx context.Context, id string) (*models.Item, error)
	// GetForUpdate reads the item and locks its row for the rest of the
	// transaction.
	GetForUpdate(ctx context.Context, id string) (*models.Item, error)
	List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error)
	// TransitionStatus moves the item from one status to another. When the
	// item is not currently in from, nothing changes and
	// common.ErrVersionConflict is returned.
	TransitionStatus(ctx context.Context, id string, from, to models.ItemStatus) error
	// Delete removes the item from listings and lookups; swap requests that
	// reference it are kept.
	Delete(ctx context.Context, id string) error
}
