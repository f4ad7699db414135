package cache

import (
	"context"
	"time"
)

// Cache is a string key/value store with expiry
type Cache interface {
	// Set stores a key-value pair with expiration
	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	// Get retrieves a value by key. A missing key yields "" and a nil error.
	Get(ctx context.Context, key string) (string, error)

	// Close closes the cache connection
	Close() error
}
