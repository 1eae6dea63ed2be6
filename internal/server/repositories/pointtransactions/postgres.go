package pointtransactions

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, tx *models.PointTransaction) (*models.PointTransaction, error) {
	query := `
		INSERT INTO point_transactions (user_id, amount, balance_after, kind, reference_id, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		tx.UserID, tx.Amount, tx.BalanceAfter, string(tx.Kind), tx.ReferenceID, tx.Note,
	).Scan(&tx.ID, &tx.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return tx, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*models.PointTransaction, error) {
	query := `
		SELECT id, user_id, amount, balance_after, kind, reference_id, note, created_at
		FROM point_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	args := []any{userID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.PointTransaction
	for rows.Next() {
		var (
			pt   models.PointTransaction
			kind string
		)
		if err := rows.Scan(&pt.ID, &pt.UserID, &pt.Amount, &pt.BalanceAfter, &kind, &pt.ReferenceID, &pt.Note, &pt.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		pt.Kind = models.PointKind(kind)
		result = append(result, &pt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
