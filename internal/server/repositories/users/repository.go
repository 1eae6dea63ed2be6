// Package users declares and implements persistence of user accounts and
// their point balances.
package users

import (
	"context"

	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID, role and timestamps. A duplicate
	// email yields common.ErrorAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetForUpdate reads the row and locks it until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.User, error)
	// AdjustPoints adds delta (possibly negative) to the balance and returns
	// the new balance. A result below zero is refused with
	// common.ErrInsufficientPoints and nothing changes.
	AdjustPoints(ctx context.Context, id string, delta int64) (int64, error)
	SetRole(ctx context.Context, id string, role models.Role) error
	// BumpSessionEpoch invalidates every access token issued so far.
	BumpSessionEpoch(ctx context.Context, id string) (int64, error)
	List(ctx context.Context) ([]*models.User, error)
}
