// Package cache stores rendered sheets and upload records between runs.
//
// A render of the same order with the same crops and output mode always
// produces the same bytes, so the pipeline keys finished sheets by a hash
// of their inputs and skips the engine on a hit. Uploaded files are cached
// the same way, so retrying a failed submission does not upload a sheet
// twice.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under the user cache directory,
//     used by the CLI.
//   - [RedisCache]: shared cache for the intake server.
//   - [NullCache]: never stores anything (--no-cache).
//
// # Keys
//
// A [Keyer] builds every key, so callers never format keys by hand.
// [ScopedKeyer] prefixes keys to give several shops one Redis database.
package cache

import (
	"context"
	"time"
)

// Entry lifetimes.
const (
	// TTLSheet matches how long customers are told their download links
	// stay valid.
	TTLSheet = 30 * 24 * time.Hour

	// TTLUpload keeps upload records for the same window as the files.
	TTLUpload = 30 * 24 * time.Hour
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss
	// (false, nil), not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connection the cache holds.
	Close() error
}
