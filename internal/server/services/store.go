// Package services implements the ReWear use cases on top of the
// repositories: identity, the item catalog, the exchange engine and
// moderation. Every mutating operation runs inside one Transactor unit.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/auth"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/dmitrijs2005/rewear/internal/server/repositories/repomanager"
)

// Store bundles the persistence handles a service needs. DB serves plain
// reads; every write goes through Tx.
type Store struct {
	DB    dbx.DBTX
	Tx    dbx.Transactor
	Repos repomanager.RepositoryManager
}

// domainErrors pass through the services untouched.
var domainErrors = []error{
	common.ErrorNotFound,
	common.ErrorAlreadyExists,
	common.ErrorUnauthorized,
	common.ErrorInternal,
	common.ErrorValidation,
	common.ErrForbidden,
	common.ErrNotAuthenticated,
	common.ErrItemUnavailable,
	common.ErrInsufficientPoints,
	common.ErrSelfTransactionDenied,
	common.ErrAlreadyRequested,
	common.ErrInvalidTransition,
	common.ErrPersistence,
	common.ErrInvalidToken,
	common.ErrTokenExpired,
	common.ErrRefreshTokenExpired,
	context.Canceled,
	context.DeadlineExceeded,
}

// classify keeps domain errors and reports anything else as a storage
// failure.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, d := range domainErrors {
		if errors.Is(err, d) {
			return err
		}
	}
	return fmt.Errorf("%w: %v", common.ErrPersistence, err)
}

func requireSession(sess *auth.Session) error {
	if sess == nil || sess.UserID == "" {
		return common.ErrNotAuthenticated
	}
	return nil
}

func requireAdmin(sess *auth.Session) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !sess.IsAdmin() {
		return common.ErrForbidden
	}
	return nil
}

func validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", common.ErrorValidation, fmt.Sprintf(format, args...))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeTags trims, lower-cases and de-duplicates tags, dropping empty
// ones. Order of first appearance is kept.
func normalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// lockUsers locks both rows in ascending id order and returns them in the
// order asked for.
func lockUsers(ctx context.Context, repos repomanager.RepositoryManager, tx dbx.DBTX, a, b string) (*models.User, *models.User, error) {
	users := repos.Users(tx)

	first, second := a, b
	if second < first {
		first, second = second, first
	}
	u1, err := users.GetForUpdate(ctx, first)
	if err != nil {
		return nil, nil, err
	}
	u2, err := users.GetForUpdate(ctx, second)
	if err != nil {
		return nil, nil, err
	}
	if first == a {
		return u1, u2, nil
	}
	return u2, u1, nil
}

// outcome labels an exchange result for metrics.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, common.ErrItemUnavailable):
		return "item_unavailable"
	case errors.Is(err, common.ErrInsufficientPoints):
		return "insufficient_points"
	case errors.Is(err, common.ErrSelfTransactionDenied):
		return "self_transaction"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrNotAuthenticated):
		return "not_authenticated"
	case errors.Is(err, common.ErrAlreadyRequested):
		return "already_requested"
	case errors.Is(err, common.ErrPersistence):
		return "persistence"
	default:
		return "other"
	}
}
