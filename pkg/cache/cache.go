// Package cache stores rendered artifacts by key.
//
// The preview server keeps rendered grid PNGs here so repeated requests with
// the same query skip the render. Two backends are provided: [FileCache] for
// on-disk storage under the user cache directory and [NullCache] when caching
// is disabled.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// TTLPreview is how long a rendered preview stays valid.
const TTLPreview = 24 * time.Hour

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	// Expired and unreadable entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Key builds a cache key of the form namespace:sha256(json(parts)).
// Parts must be JSON-encodable; equal parts always give equal keys.
func Key(namespace string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return namespace + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
