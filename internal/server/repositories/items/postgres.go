package items

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

// PostgresRepository implements item storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const itemColumns = `id, title, description, category, type, size, condition, tags, images, owner_id, status, points_required, created_at`

func scanItem(row interface{ Scan(...any) error }) (*models.Item, error) {
	var (
		it           models.Item
		tags, images []byte
		status       string
	)
	if err := row.Scan(&it.ID, &it.Title, &it.Description, &it.Category, &it.Type, &it.Size, &it.Condition,
		&tags, &images, &it.OwnerID, &status, &it.PointsRequired, &it.CreatedAt); err != nil {
		return nil, err
	}
	it.Status = models.ItemStatus(status)
	if err := decodeList(tags, &it.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if err := decodeList(images, &it.Images); err != nil {
		return nil, fmt.Errorf("decode images: %w", err)
	}
	return &it, nil
}

func decodeList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func encodeList(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	tags, err := encodeList(item.Tags)
	if err != nil {
		return nil, err
	}
	images, err := encodeList(item.Images)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO items (title, description, category, type, size, condition, tags, images, owner_id, status, points_required)
		VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8::jsonb, $9, $10, $11)
		RETURNING id, created_at
	`
	item.Status = models.ItemPending
	err = r.db.QueryRowContext(ctx, query,
		item.Title, item.Description, item.Category, item.Type, item.Size, item.Condition,
		tags, images, item.OwnerID, string(item.Status), item.PointsRequired,
	).Scan(&item.ID, &item.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return item, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return it, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`

	it, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return it, nil
}

// List returns items matching filter, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter models.ItemFilter) ([]*models.Item, error) {
	var (
		conds = []string{"deleted_at IS NULL"}
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Status != "" {
		add("status = $%d", string(filter.Status))
	}
	if filter.OwnerID != "" {
		add("owner_id = $%d", filter.OwnerID)
	}
	if filter.Category != "" {
		add("category = $%d", filter.Category)
	}
	if filter.Tag != "" {
		add("tags @> jsonb_build_array($%d::text)", filter.Tag)
	}

	query := `SELECT ` + itemColumns + ` FROM items WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidInput(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) TransitionStatus(ctx context.Context, id string, from, to models.ItemStatus) error {
	query := `UPDATE items SET status = $3 WHERE id = $1 AND status = $2 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id, string(from), string(to))
	if err != nil {
		return lookupError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrVersionConflict
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// Delete hides the item from every read. The row stays so swap requests
// keep pointing at it.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE items SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return lookupError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
