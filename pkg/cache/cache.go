// Package cache provides pluggable byte-level caching for resolution
// results and registry responses.
//
// Three backends are available:
//   - file: directory-based cache for CLI usage
//   - redis: Redis-backed cache for server deployments
//   - null: no-op cache for testing or when caching is disabled
//
// All backends store opaque byte slices with optional TTL-based expiration.
// Key construction helpers live in keys.go; they hash structured inputs
// (descriptor bytes, resolution options) into stable keys so that identical
// requests hit the same entry.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Expired entries are treated as misses. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
