// Package kv is the persistent key-value layer for the auth token and the
// pinned-object lists. Every read goes to the backing store; nothing is
// cached in memory.
package kv

import "context"

// Persisted keys.
const (
	KeyAPIKey       = "api_key"
	KeyLegacyAppKey = "app_key"
	PinnedPrefix    = "pinned_objects_"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}
