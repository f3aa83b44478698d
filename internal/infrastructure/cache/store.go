package cache

import (
	"context"
	"time"
)

// Store is a small key-value cache used for dashboard snapshots and other
// computed aggregates. Values are opaque byte slices; callers handle
// serialization.
type Store interface {
	// Get returns the cached value for key, or (nil, false, nil) on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any underlying resources.
	Close() error
}
