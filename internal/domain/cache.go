package domain

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned by CacheStore.Get when the key is absent or
// expired. It is internal plumbing and never surfaces to callers of the
// services built on top of the cache.
var ErrCacheMiss = errors.New("key not found in cache")

// CacheStore is the byte-oriented key-value abstraction underlying the
// profile resolver, the aggregation engine and the revocation denylist.
// Implementations must be safe for concurrent use; semantics are
// last-write-wins with advisory per-key TTL expiry.
//
// Callers outside the revocation namespace treat every error as a
// degradation signal (recompute from the source of truth), never as a
// reason to abort their primary path.
type CacheStore interface {
	// Get retrieves the value stored under key, or ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key with the given TTL, replacing any previous
	// entry whole. Entries are never partially updated.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the entry under key. Deleting an absent key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether key currently holds an unexpired entry.
	Exists(ctx context.Context, key string) (bool, error)
}
