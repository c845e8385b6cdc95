// Package kv provides the durable string key-value store backing timer
// persistence.
package kv

import "context"

// Store is a string-keyed, string-valued store with per-key durability.
// A missing key is reported through the second return value, not an error.
type Store interface {
	// Get returns the value stored under key.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set writes or replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases the store.
	Close() error
}
