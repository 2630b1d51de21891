// Package cache stores rendered artifacts and fetched snapshots.
//
// All backends implement [Cache], a byte-oriented key/value store with
// per-entry TTL. The CLI uses [FileCache] by default, the serve command can
// share renders across instances with [RedisCache], and [NullCache]
// disables caching.
//
// Keys are built by a [Keyer] from the hash of a data snapshot plus the
// options that influence the output, so a changed style or canvas size
// never returns a stale artifact.
package cache

import (
	"context"
	"time"
)

// Default entry lifetimes.
const (
	TTLArtifact = 24 * time.Hour
	TTLFetch    = time.Hour
)

// Cache is a byte-oriented key/value store.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources held by the cache.
	Close() error
}

// NullCache stores nothing: every Get misses, so every draw renders afresh.
type NullCache struct {
	// Reason says why caching is off, for logs.
	Reason string
}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

// Disabled returns a [NullCache] that records why caching is off.
func Disabled(reason string) *NullCache { return &NullCache{Reason: reason} }

// Get always misses.
func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set drops data.
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

// Delete does nothing.
func (*NullCache) Delete(context.Context, string) error { return nil }

// Close does nothing.
func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
