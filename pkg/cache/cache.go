// Package cache provides pluggable storage backends for HTTP response
// caching, plus the retry helpers used by clients that populate them.
//
// Three backends are provided:
//   - [FileCache] stores entries under a directory (CLI default)
//   - [RedisCache] shares entries between processes (serve mode)
//   - [NullCache] stores nothing (caching disabled)
//
// Keys are opaque strings; values are opaque byte slices. Callers are
// responsible for serialization. A zero TTL means the entry never expires.
package cache

import (
	"context"
	"time"
)

// Cache is a generic key-value store with per-entry expiration.
// All implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present (a miss is not an error).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given time-to-live.
	// A ttl of zero stores the value without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}
