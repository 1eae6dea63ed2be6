// Package pointtransactions is the append-only points ledger.
package pointtransactions

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type Repository interface {
	// Append records tx and fills its ID and CreatedAt. Rows are never
	// updated or removed.
	Append(ctx context.Context, tx *models.PointTransaction) (*models.PointTransaction, error)
	// ListByUser returns the user's ledger, newest first. limit <= 0 means
	// no limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]*models.PointTransaction, error)
}
