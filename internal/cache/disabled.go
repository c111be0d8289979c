package cache

import (
	"context"
	"time"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
)

func init() {
	Register("disabled", newDisabledCache)
}

// disabledCache is the adapter used when no cache endpoint is configured.
// It is permanently unavailable: every operation fails fast with
// ErrCacheUnavailable and callers fall back to the store, which is
// exactly the degraded mode the service runs in without a cache.
type disabledCache struct{}

func newDisabledCache(ProviderConfig) (Cache, error) {
	return disabledCache{}, nil
}

func (disabledCache) Get(context.Context, string) ([]byte, error) {
	return nil, apperrors.ErrCacheUnavailable
}

func (disabledCache) SetWithTTL(context.Context, string, []byte, time.Duration) error {
	return apperrors.ErrCacheUnavailable
}

func (disabledCache) Delete(context.Context, ...string) error {
	return apperrors.ErrCacheUnavailable
}

func (disabledCache) Ping(context.Context) (time.Duration, error) {
	return 0, apperrors.ErrCacheUnavailable
}

func (disabledCache) Available() bool { return false }

func (disabledCache) Close() error { return nil }
