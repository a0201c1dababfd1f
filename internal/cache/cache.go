// Package cache provides the key-value store used for cached bearer tokens.
// The cache is advisory: a failed lookup degrades to a miss and a failed
// insert is a no-op, so token acquisition never depends on the cache being
// healthy.
package cache

import (
	"context"
	"time"
)

// Store is a get/put-with-expiry key-value store.
type Store interface {
	// Lookup returns the value for key and whether it was present.
	Lookup(ctx context.Context, key string) (string, bool, error)
	// Insert stores value under key for at most ttl.
	Insert(ctx context.Context, key, value string, ttl time.Duration) error
}
