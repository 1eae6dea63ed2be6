package dbx

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation           = "23505"
	pgInvalidTextRepresentation = "22P02"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolation reports a unique index conflict.
func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}

// IsInvalidInput reports a value PostgreSQL could not parse, e.g. a
// malformed UUID used as a lookup key.
func IsInvalidInput(err error) bool {
	return pgCode(err) == pgInvalidTextRepresentation
}
