package cache

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProviderConfig holds the configuration needed to create a cache instance.
type ProviderConfig struct {
	// Addr is the Redis/Valkey server address (e.g., "localhost:6379").
	Addr string

	// Password is the password for the Redis/Valkey server.
	Password string

	// DB is the Redis/Valkey database number.
	DB int

	// TTL is the default time-to-live applied by providers that cannot
	// honor a per-entry TTL (the memory provider).
	TTL time.Duration

	// Size is the maximum number of entries for the memory provider.
	Size int

	// OpTimeout bounds every single cache operation. Zero means the
	// provider default of two seconds.
	OpTimeout time.Duration

	// Logger receives warning/error reports from cache operations.
	Logger zerolog.Logger
}

// Provider is a constructor function that creates a Cache from config.
type Provider func(cfg ProviderConfig) (Cache, error)

var (
	mu        sync.RWMutex
	providers = make(map[string]Provider)
)

// Register registers a cache provider under the given name.
// It panics if the name is already registered or the provider is nil.
func Register(name string, p Provider) {
	mu.Lock()
	defer mu.Unlock()

	if p == nil {
		panic("cache: Register provider is nil")
	}
	if _, exists := providers[name]; exists {
		panic(fmt.Sprintf("cache: provider %q already registered", name))
	}
	providers[name] = p
}

// New creates a new Cache using the named provider and the given config.
// The result is wrapped with latency instrumentation: every operation
// records its wall-clock duration into the cache operation histogram,
// labeled by operation kind.
func New(name string, cfg ProviderConfig) (Cache, error) {
	mu.RLock()
	p, ok := providers[name]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("cache: unknown provider %q (registered: %v)", name, RegisteredProviders())
	}

	inner, err := p(cfg)
	if err != nil {
		return nil, err
	}

	return newInstrumentedCache(inner), nil
}

// RegisteredProviders returns a sorted list of registered provider names.
func RegisteredProviders() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
