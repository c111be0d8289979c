package cache

import (
	"context"
	"time"
)

// Operation label values for the cache operation duration histogram.
const (
	opGet  = "get"
	opSet  = "set"
	opDel  = "del"
	opPing = "ping"
)

// instrumentedCache wraps a Cache and records the wall-clock duration of
// every operation into the Prometheus operation histogram, labeled by
// operation kind. All latency tracking lives in the cache layer so
// callers do not need to manage it.
type instrumentedCache struct {
	inner Cache
}

func newInstrumentedCache(inner Cache) *instrumentedCache {
	return &instrumentedCache{inner: inner}
}

func (c *instrumentedCache) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	val, err := c.inner.Get(ctx, key)
	OperationDuration.WithLabelValues(opGet).Observe(time.Since(start).Seconds())
	return val, err
}

func (c *instrumentedCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.inner.SetWithTTL(ctx, key, value, ttl)
	OperationDuration.WithLabelValues(opSet).Observe(time.Since(start).Seconds())
	return err
}

func (c *instrumentedCache) Delete(ctx context.Context, keys ...string) error {
	start := time.Now()
	err := c.inner.Delete(ctx, keys...)
	OperationDuration.WithLabelValues(opDel).Observe(time.Since(start).Seconds())
	return err
}

func (c *instrumentedCache) Ping(ctx context.Context) (time.Duration, error) {
	latency, err := c.inner.Ping(ctx)
	OperationDuration.WithLabelValues(opPing).Observe(latency.Seconds())
	return latency, err
}

func (c *instrumentedCache) Available() bool {
	return c.inner.Available()
}

func (c *instrumentedCache) Close() error {
	return c.inner.Close()
}
