// Package images gives access to item photos kept in S3-compatible storage.
// Objects are uploaded out of band; the server hands out short-lived GET
// URLs and removes objects when an item is deleted.
package images

import "context"

type Store interface {
	// PresignGet returns a time-limited URL for reading key.
	PresignGet(ctx context.Context, key string) (string, error)
	// Delete removes keys. Missing objects are not an error.
	Delete(ctx context.Context, keys []string) error
}
