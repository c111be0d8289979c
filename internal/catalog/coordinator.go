// Package catalog implements the cache-aside layer between the HTTP
// handlers and the authoritative store: reads go through the cache and
// fall back to the store on a miss, writes mutate the store first and
// then invalidate every cache entry that could have gone stale.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
	"github.com/shopfabrik/catalog-service/internal/cache"
	"github.com/shopfabrik/catalog-service/internal/models"
	"github.com/shopfabrik/catalog-service/internal/store"
)

// Coordinator orchestrates read-through and invalidate-on-write between
// the store and the cache. Cache failures never propagate to callers:
// an unavailable cache degrades performance, not correctness.
type Coordinator struct {
	store  *store.Store
	cache  cache.Cache
	ttl    time.Duration
	logger zerolog.Logger
}

// New creates a Coordinator. Entries written back on a read miss carry
// the given TTL.
func New(st *store.Store, c cache.Cache, ttl time.Duration, logger zerolog.Logger) *Coordinator {
	return &Coordinator{
		store:  st,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// ListProducts returns the catalog, optionally filtered by category.
// The boolean result reports whether the response came from the cache.
func (c *Coordinator) ListProducts(ctx context.Context, category string) ([]models.Product, bool, error) {
	key, keyType := listKey(category)
	return readThrough(c, ctx, key, keyType, func() ([]models.Product, error) {
		return c.store.List(category), nil
	})
}

// GetProduct returns a single product by id, with a cached marker.
func (c *Coordinator) GetProduct(ctx context.Context, id int) (models.Product, bool, error) {
	return readThrough(c, ctx, productKey(id), keyTypeProduct, func() (models.Product, error) {
		return c.store.Get(id)
	})
}

// CreateProduct stores a new product and invalidates the snapshots the
// new item now belongs to.
func (c *Coordinator) CreateProduct(ctx context.Context, in models.CreateProduct) (models.Product, error) {
	p, err := c.store.Create(in)
	if err != nil {
		return models.Product{}, err
	}
	c.invalidate(ctx, productKey(p.ID), keyAllProducts, categoryKey(p.Category))
	return p, nil
}

// UpdateProduct applies a partial update and invalidates the item key,
// the full snapshot, and the category snapshots. When the update moves
// the product to another category, both the old and the new category
// keys are cleared.
func (c *Coordinator) UpdateProduct(ctx context.Context, id int, patch models.UpdateProduct) (models.Product, error) {
	before, err := c.store.Get(id)
	if err != nil {
		return models.Product{}, err
	}

	p, err := c.store.Update(id, patch)
	if err != nil {
		return models.Product{}, err
	}

	keys := []string{productKey(id), keyAllProducts, categoryKey(before.Category)}
	if p.Category != before.Category {
		keys = append(keys, categoryKey(p.Category))
	}
	c.invalidate(ctx, keys...)
	return p, nil
}

// DeleteProduct removes a product and invalidates its cache entries.
func (c *Coordinator) DeleteProduct(ctx context.Context, id int) error {
	before, err := c.store.Get(id)
	if err != nil {
		return err
	}
	if err := c.store.Delete(id); err != nil {
		return err
	}
	c.invalidate(ctx, productKey(id), keyAllProducts, categoryKey(before.Category))
	return nil
}

// readThrough implements the read path: on a cache hit the store is
// skipped entirely; on a miss the store result is written back with the
// configured TTL, best-effort. When the cache is unavailable the store
// answers directly and no hit/miss counter moves.
func readThrough[T any](c *Coordinator, ctx context.Context, key, keyType string, load func() (T, error)) (T, bool, error) {
	var zero T

	if c.cache.Available() {
		raw, err := c.cache.Get(ctx, key)
		switch {
		case err == nil:
			var v T
			if jerr := json.Unmarshal(raw, &v); jerr == nil {
				cache.HitsTotal.WithLabelValues(keyType).Inc()
				return v, true, nil
			}
			// An undecodable entry is treated as a miss and overwritten below.
			c.logger.Warn().Str("key", key).Msg("Discarding corrupt cache entry")
			cache.MissesTotal.WithLabelValues(keyType).Inc()
		case errors.Is(err, apperrors.ErrCacheMiss):
			cache.MissesTotal.WithLabelValues(keyType).Inc()
		case errors.Is(err, apperrors.ErrCacheUnavailable):
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache unavailable, serving from store")
		default:
			c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed, serving from store")
		}
	}

	v, err := load()
	if err != nil {
		return zero, false, err
	}

	if c.cache.Available() {
		if raw, jerr := json.Marshal(v); jerr == nil {
			if serr := c.cache.SetWithTTL(ctx, key, raw, c.ttl); serr != nil {
				c.logger.Warn().Err(serr).Str("key", key).Msg("Cache write-back failed")
			}
		}
	}

	return v, false, nil
}

// invalidate deletes the given keys, best-effort. A failed delete is
// logged only: the store mutation already succeeded and the stale entry
// self-corrects once its TTL elapses.
func (c *Coordinator) invalidate(ctx context.Context, keys ...string) {
	if !c.cache.Available() {
		return
	}
	if err := c.cache.Delete(ctx, keys...); err != nil {
		c.logger.Warn().Err(err).Strs("keys", keys).Msg("Cache invalidation failed")
	}
}
