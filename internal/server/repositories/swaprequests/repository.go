// Package swaprequests stores the audit trail of exchange attempts.
package swaprequests

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type Repository interface {
	// Create inserts req. A second pending swap by the same requester for the
	// same item yields common.ErrAlreadyRequested; a second accepted request
	// for an item yields common.ErrItemUnavailable.
	Create(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error)
	Get(ctx context.Context, id string) (*models.SwapRequest, error)
	GetForUpdate(ctx context.Context, id string) (*models.SwapRequest, error)
	List(ctx context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error)
	// SetStatus moves a request from one status to another, returning
	// common.ErrVersionConflict when it is no longer in from.
	SetStatus(ctx context.Context, id string, from, to models.SwapStatus) error
	// RejectPending rejects every pending request for itemID except exceptID
	// and reports how many were touched.
	RejectPending(ctx context.Context, itemID, exceptID string) (int64, error)
}
