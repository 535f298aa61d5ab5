// Package cache stores rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (server deployments)
//   - [NullCache]: stores nothing (--no-cache)
//
// # Keys
//
// A [Keyer] derives keys from content hashes. Artifacts are keyed by the hash
// of the dataset they were rendered from plus every option that changes the
// output, so an edited dataset or a different series list never hits a stale
// entry:
//
//	key := keyer.ArtifactKey(cache.Hash(datasetBytes), cache.ArtifactKeyOpts{
//	    Format: "svg", Offset: "wiggle", Series: cfg.Series,
//	})
package cache

import (
	"context"
	"time"
)

// Default lifetimes.
const (
	TTLArtifact = 24 * time.Hour
	TTLDataset  = 10 * time.Minute
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Clearer is implemented by caches that can drop every entry.
type Clearer interface {
	Clear(ctx context.Context) error
}
