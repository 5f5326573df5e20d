// Package kvstore provides the string key-value persistence used for users,
// login attempts, sessions and client settings.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a flat string-to-string map. Writes are last-write-wins.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	// Delete is a no-op for missing keys
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
