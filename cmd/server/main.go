package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/shopfabrik/catalog-service/internal/cache"
	"github.com/shopfabrik/catalog-service/internal/catalog"
	"github.com/shopfabrik/catalog-service/internal/config"
	"github.com/shopfabrik/catalog-service/internal/httpapi"
	"github.com/shopfabrik/catalog-service/internal/store"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Int("server_port", cfg.Server.Port).
		Str("redis_addr", cfg.RedisAddr()).
		Dur("cache_ttl", cfg.CacheTTL()).
		Msg("Application started with configuration")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	// The cache is optional: without a configured endpoint the service
	// runs in degraded mode and serves purely from the store.
	provider := "redis"
	if cfg.RedisAddr() == "" {
		provider = "disabled"
		logger.Warn().Msg("No cache endpoint configured, running without cache")
	}

	cacheClient, err := cache.New(provider, cache.ProviderConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      cfg.CacheTTL(),
		Size:     cfg.Cache.Size,
		Logger:   logger,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create cache client")
	}
	defer func() {
		if err := cacheClient.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close cache client")
		}
	}()

	catalogStore := store.New()
	coordinator := catalog.New(catalogStore, cacheClient, cfg.CacheTTL(), logger)
	handler := httpapi.NewHandler(coordinator, catalogStore, cacheClient, logger)

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port),
		Handler: httpapi.NewRouter(handler),
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("address", server.Addr).Msg("Starting HTTP server")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}

	logger.Info().Msg("Server stopped gracefully")
}
