package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/rewear/internal/common"
	"github.com/dmitrijs2005/rewear/internal/dbx"
	"github.com/dmitrijs2005/rewear/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, name, email, password_hash, role, points, session_epoch, created_at`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Points, &u.SessionEpoch, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	return u, nil
}

func lookupError(err error) error {
	if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidInput(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (name, email, password_hash, role, points)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, session_epoch, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Name, user.Email, user.PasswordHash, string(user.Role), user.Points).Scan(&user.ID, &user.SessionEpoch, &user.CreatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1)`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 FOR UPDATE`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, lookupError(err)
	}
	return user, nil
}

func (r *PostgresRepository) AdjustPoints(ctx context.Context, id string, delta int64) (int64, error) {
	query :=
		`UPDATE users SET points = points + $2
		 WHERE id = $1 AND points + $2 >= 0
		 RETURNING points
		 `

	var balance int64
	err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, lookupError(err)
	}

	// No row updated: either the user is gone or the balance is too low.
	if _, err := r.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return 0, common.ErrInsufficientPoints
}

func (r *PostgresRepository) SetRole(ctx context.Context, id string, role models.Role) error {
	query := `UPDATE users SET role = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, string(role))
	if err != nil {
		return lookupError(err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) BumpSessionEpoch(ctx context.Context, id string) (int64, error) {
	query :=
		`UPDATE users SET session_epoch = session_epoch + 1
		 WHERE id = $1
		 RETURNING session_epoch
		 `

	var epoch int64
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&epoch); err != nil {
		return 0, lookupError(err)
	}
	return epoch, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
