package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
)

func init() {
	Register("memory", newMemoryCache)
}

// memoryCache wraps hashicorp/golang-lru/v2/expirable to implement the
// Cache interface without an external server. It is always available and
// backs local development and tests.
//
// The expirable LRU applies one TTL per cache, so SetWithTTL honors the
// TTL from ProviderConfig rather than the per-call value. The
// coordinator always passes the single configured TTL, making the two
// equivalent in practice.
type memoryCache struct {
	inner *lru.LRU[string, []byte]
}

func newMemoryCache(cfg ProviderConfig) (Cache, error) {
	size := cfg.Size
	if size <= 0 {
		size = 1024
	}
	return &memoryCache{
		inner: lru.NewLRU[string, []byte](size, nil, cfg.TTL),
	}, nil
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	val, ok := m.inner.Get(key)
	if !ok {
		return nil, apperrors.ErrCacheMiss
	}
	return val, nil
}

func (m *memoryCache) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.inner.Add(key, value)
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		m.inner.Remove(key)
	}
	return nil
}

func (m *memoryCache) Ping(_ context.Context) (time.Duration, error) {
	return 0, nil
}

func (m *memoryCache) Available() bool {
	return true
}

func (m *memoryCache) Close() error {
	return nil
}
