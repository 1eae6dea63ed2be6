package dbx

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sethvargo/go-retry"
)

// Transactor runs a unit of work atomically. Implementations commit when fn
// returns nil and roll back on any error or panic.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error
}

const (
	DefaultTxAttempts = 3
	DefaultTxBackoff  = 50 * time.Millisecond
)

// SQLTransactor is a Transactor over *sql.DB that re-runs the whole unit of
// work when the failure is transient (see IsRetryable).
type SQLTransactor struct {
	db        *sql.DB
	opts      *sql.TxOptions
	attempts  uint64
	backoff   time.Duration
	retryable func(error) bool
	onRetry   func(attempt int, err error)
}

// TxOption customizes a SQLTransactor.
type TxOption func(*SQLTransactor)

// WithAttempts sets the total number of attempts, the first one included.
func WithAttempts(n int) TxOption {
	return func(t *SQLTransactor) {
		if n > 0 {
			t.attempts = uint64(n)
		}
	}
}

// WithBackoff sets the base delay of the exponential backoff.
func WithBackoff(d time.Duration) TxOption {
	return func(t *SQLTransactor) {
		if d > 0 {
			t.backoff = d
		}
	}
}

// WithTxOptions sets isolation level / read-only flag used for BeginTx.
func WithTxOptions(opts *sql.TxOptions) TxOption {
	return func(t *SQLTransactor) { t.opts = opts }
}

// WithRetryable replaces the transient error classifier.
func WithRetryable(fn func(error) bool) TxOption {
	return func(t *SQLTransactor) {
		if fn != nil {
			t.retryable = fn
		}
	}
}

// WithOnRetry registers a hook called before each re-run with the number of
// the attempt that failed.
func WithOnRetry(fn func(attempt int, err error)) TxOption {
	return func(t *SQLTransactor) { t.onRetry = fn }
}

func NewSQLTransactor(db *sql.DB, opts ...TxOption) *SQLTransactor {
	t := &SQLTransactor{
		db:        db,
		attempts:  DefaultTxAttempts,
		backoff:   DefaultTxBackoff,
		retryable: IsRetryable,
	}
	for _, o := range opts {
		o(t)
	}
	return t
}

// WithinTx runs fn in a fresh transaction per attempt. Non-transient errors
// are returned immediately; transient ones are retried until the attempt
// budget is spent, after which the last error is returned.
func (t *SQLTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DBTX) error) error {
	b := retry.WithMaxRetries(t.attempts-1, retry.NewExponential(t.backoff))

	attempt := 0
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := WithTx(ctx, t.db, t.opts, fn)
		if err != nil && t.retryable(err) {
			if t.onRetry != nil && uint64(attempt) < t.attempts {
				t.onRetry(attempt, err)
			}
			return retry.RetryableError(err)
		}
		return err
	})
}

// PostgreSQL SQLSTATE codes that signal the transaction lost a race and is
// safe to re-run from scratch.
const (
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
)

// IsRetryable reports whether err is a transient PostgreSQL failure:
// serialization failures, deadlocks and errors pgconn marks safe to retry
// (the request never reached the server).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgSerializationFailure || pgErr.Code == pgDeadlockDetected
	}
	return pgconn.SafeToRetry(err)
}
