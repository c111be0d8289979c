package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/failsafe-go/failsafe-go"
	"github.com/failsafe-go/failsafe-go/retrypolicy"
	"github.com/redis/go-redis/v9"

	"github.com/shopfabrik/catalog-service/internal/apperrors"
)

const (
	// defaultOpTimeout bounds each cache operation so a slow cache server
	// cannot stall request handling indefinitely.
	defaultOpTimeout = 2 * time.Second

	// connectAttempts is the number of initial connectivity probes before
	// the adapter settles into disconnected state.
	connectAttempts = 3
)

func init() {
	Register("redis", newRedisCache)
}

// redisCache implements the Cache interface on a Redis/Valkey server
// using the plain GET/SET-with-expiry/DEL/PING command set. Values are
// opaque bytes; the caller decides the encoding.
//
// Connectivity is explicit state: a failed initial ping leaves the
// adapter disconnected instead of failing construction, so the service
// can start without a reachable cache. While disconnected, every
// operation fails fast with ErrCacheUnavailable. Ping always talks to
// the server and flips the adapter back to available on success, so
// periodic health probes double as the reconnect path; go-redis
// re-establishes the underlying connection transparently. Reconnect
// probes are serialized by connectMu.
type redisCache struct {
	client    *redis.Client
	timeout   time.Duration
	available atomic.Bool
	connectMu sync.Mutex
}

func newRedisCache(cfg ProviderConfig) (Cache, error) {
	if cfg.Addr == "" {
		return nil, errors.New("redis cache: address is required")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := cfg.OpTimeout
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}

	c := &redisCache{
		client:  client,
		timeout: timeout,
	}

	if err := c.connect(); err != nil {
		cfg.Logger.Warn().Err(err).Str("addr", cfg.Addr).
			Msg("Cache unreachable, starting disconnected")
	}

	return c, nil
}

// connect probes the server with a bounded retry and records the
// resulting availability. Only one probe runs at a time.
func (r *redisCache) connect() error {
	r.connectMu.Lock()
	defer r.connectMu.Unlock()

	retry := retrypolicy.Builder[any]().
		WithBackoff(200*time.Millisecond, 2*time.Second).
		WithMaxRetries(connectAttempts - 1).
		Build()

	err := failsafe.Run(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		return r.client.Ping(ctx).Err()
	}, retry)

	r.available.Store(err == nil)
	if err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *redisCache) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// markFailed transitions the adapter to disconnected and wraps the
// underlying error in ErrCacheUnavailable.
func (r *redisCache) markFailed(op string, err error) error {
	r.available.Store(false)
	return fmt.Errorf("redis %s: %w: %w", op, apperrors.ErrCacheUnavailable, err)
}

func (r *redisCache) Get(ctx context.Context, key string) ([]byte, error) {
	if !r.available.Load() {
		return nil, apperrors.ErrCacheUnavailable
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrCacheMiss
		}
		return nil, r.markFailed("get", err)
	}
	return val, nil
}

func (r *redisCache) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if !r.available.Load() {
		return apperrors.ErrCacheUnavailable
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return r.markFailed("set", err)
	}
	return nil
}

func (r *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if !r.available.Load() {
		return apperrors.ErrCacheUnavailable
	}

	ctx, cancel := r.opContext(ctx)
	defer cancel()

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return r.markFailed("del", err)
	}
	return nil
}

// Ping always probes the server, regardless of recorded availability,
// and restores the adapter to available on success.
func (r *redisCache) Ping(ctx context.Context) (time.Duration, error) {
	ctx, cancel := r.opContext(ctx)
	defer cancel()

	start := time.Now()
	err := r.client.Ping(ctx).Err()
	latency := time.Since(start)
	if err != nil {
		r.available.Store(false)
		return latency, fmt.Errorf("redis ping: %w: %w", apperrors.ErrCacheUnavailable, err)
	}
	r.available.Store(true)
	return latency, nil
}

func (r *redisCache) Available() bool {
	return r.available.Load()
}

func (r *redisCache) Close() error {
	return r.client.Close()
}
