package pointtransactions

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/rewear/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestAppend(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^\s*INSERT\s+INTO\s+point_transactions\s*\(user_id,\s*amount,\s*balance_after,\s*kind,\s*reference_id,\s*note\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6\)\s*RETURNING\s+id,\s*created_at\s*$`
	now := time.Now()
	mock.ExpectQuery(q).
		WithArgs("u-1", int64(-50), int64(10), "redeem_debit", "i-1", "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("p-1", now))

	got, err := repo.Append(context.Background(), &models.PointTransaction{
		UserID: "u-1", Amount: -50, BalanceAfter: 10, Kind: models.PointRedeemDebit, ReferenceID: "i-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
}

func TestAppend_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+point_transactions`).WillReturnError(errors.New("db down"))

	_, err := repo.Append(context.Background(), &models.PointTransaction{UserID: "u-1"})
	assert.ErrorContains(t, err, "db error: db down")
}

func TestListByUser(t *testing.T) {
	cols := []string{"id", "user_id", "amount", "balance_after", "kind", "reference_id", "note", "created_at"}
	now := time.Now()

	t.Run("unlimited", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)FROM\s+point_transactions\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s*$`).
			WithArgs("u-1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("p-2", "u-1", int64(-50), int64(50), "redeem_debit", "i-1", "", now).
				AddRow("p-1", "u-1", int64(100), int64(100), "signup_grant", "", "", now))

		got, err := repo.ListByUser(context.Background(), "u-1", 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, models.PointSignupGrant, got[1].Kind)
	})

	t.Run("limited", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`(?s)ORDER\s+BY\s+created_at\s+DESC,\s*id\s+LIMIT\s+\$2$`).
			WithArgs("u-1", int64(1)).
			WillReturnRows(sqlmock.NewRows(cols).AddRow("p-2", "u-1", int64(-50), int64(50), "redeem_debit", "i-1", "", now))

		got, err := repo.ListByUser(context.Background(), "u-1", 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
	})
}
