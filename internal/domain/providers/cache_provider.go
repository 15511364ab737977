package providers

import (
	"context"
	"time"
)

// CacheProvider is the shared second-level cache used for intent
// classification results. Implementations are best-effort: callers treat
// every error as a miss.
type CacheProvider interface {
	// Get retrieves a value from cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in cache with a TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from cache
	Delete(ctx context.Context, key string) error
}
