package swaprequests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const swapColumns = `id, requester_id, owner_id, item_id, type, status, created_at, updated_at`

func scanSwap(row interface{ Scan(...any) error }) (*models.SwapRequest, error) {
	var (
		sr          models.SwapRequest
		typ, status string
	)
	if err := row.Scan(&sr.ID, &sr.RequesterID, &sr.OwnerID, &sr.ItemID, &typ, &status, &sr.CreatedAt, &sr.UpdatedAt); err != nil {
		return nil, err
	}
	sr.Type = models.SwapType(typ)
	sr.Status = models.SwapStatus(status)
	return &sr, nil
}

func lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, req *models.SwapRequest) (*models.SwapRequest, error) {
	query := `
		INSERT INTO swap_requests (requester_id, owner_id, item_id, type, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		req.RequesterID, req.OwnerID, req.ItemID, string(req.Type), string(req.Status),
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "swap_requests_one_accepted" {
				return nil, common.ErrItemUnavailable
			}
			return nil, common.ErrAlreadyRequested
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return req, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1`

	sr, err := scanSwap(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return sr, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1 FOR UPDATE`

	sr, err := scanSwap(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return sr, nil
}

// List returns matching requests, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.SwapRequestFilter) ([]*models.SwapRequest, error) {
	var (
		conds []string
		args  []any
	)
	if filter.ParticipantID != "" {
		args = append(args, filter.ParticipantID)
		conds = append(conds, fmt.Sprintf("(requester_id = $%d OR owner_id = $%d)", len(args), len(args)))
	}
	if filter.ItemID != "" {
		args = append(args, filter.ItemID)
		conds = append(conds, fmt.Sprintf("item_id = $%d", len(args)))
	}
	if filter.RequesterID != "" {
		args = append(args, filter.RequesterID)
		conds = append(conds, fmt.Sprintf("requester_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + swapColumns + ` FROM swap_requests`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.SwapRequest
	for rows.Next() {
		sr, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, from, to models.SwapStatus) error {
	query := `UPDATE swap_requests SET status = $3, updated_at = now() WHERE id = $1 AND status = $2`

	res, err := r.db.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrItemUnavailable
		}
		return lookupError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrVersionConflict
	}
	return nil
}

func (r *PostgresRepository) RejectPending(ctx context.Context, itemID, exceptID string) (int64, error) {
	query := `
		UPDATE swap_requests SET status = 'rejected', updated_at = now()
		WHERE item_id = $1 AND status = 'pending' AND id::text <> $2
	`

	res, err := r.db.ExecContext(ctx, query, itemID, exceptID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
