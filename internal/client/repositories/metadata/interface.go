// Package metadata stores the CLI's session between runs as key/value rows
// in the local SQLite database.
package metadata

import "context"

type Key string

const (
	KeyUserID       Key = "user_id"
	KeyEmail        Key = "email"
	KeyRole         Key = "role"
	KeyRefreshToken Key = "refresh_token"
)

type Repository interface {
	// Get returns "" when the key is absent.
	Get(ctx context.Context, key Key) (string, error)
	// SetAll upserts every pair in one transaction.
	SetAll(ctx context.Context, values map[Key]string) error
	Delete(ctx context.Context, key Key) error
	Clear(ctx context.Context) error
}
