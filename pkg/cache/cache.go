// Package cache stores rendered chart artifacts.
//
// Layout is cheap and always recomputed; only the rendered bytes (SVG, JSON,
// PNG, PDF) are cached. Keys hash every input that affects the artifact, so
// an entry can never go stale and TTLs only bound disk or memory use.
//
// Backends:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared cache for multi-instance API servers
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(modelHash, cache.ArtifactKeyOpts{Format: "svg", Width: 800, Height: 400})
//	data, hit, err := c.Get(ctx, key)
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached value and whether it was found.
	// A miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long rendered artifacts are kept.
const DefaultTTL = 7 * 24 * time.Hour
