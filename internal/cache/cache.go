package cache

import (
	"context"
	"time"
)

// Cache defines the interface for the remote key-value cache shadowing
// the catalog store. Implementations may use an external backend like
// Redis/Valkey or in-memory storage.
//
// Lookup failures are reported through the apperrors sentinels:
// ErrCacheMiss for an absent key, ErrCacheUnavailable when the backend
// cannot be reached. Callers must treat the two differently — a miss is
// followed by repopulation, unavailability is not.
type Cache interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) ([]byte, error)

	// SetWithTTL stores a value under key with the given time-to-live.
	// An existing value is overwritten.
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Absent keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// Ping probes backend connectivity and returns the round-trip latency.
	// For the redis backend a successful ping also restores availability
	// after an outage.
	Ping(ctx context.Context) (time.Duration, error)

	// Available reports whether the backend is believed reachable.
	// Operations on an unavailable cache fail fast with ErrCacheUnavailable.
	Available() bool

	// Close releases any resources held by the cache (e.g., network connections).
	// For in-memory caches, this is a no-op.
	Close() error
}
