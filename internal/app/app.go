// Package app wires configuration into the logger, cache and Search Gateway
// shared by the server and the CLI.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dharmasatrya/flightoffers/internal/cache"
	"github.com/dharmasatrya/flightoffers/internal/config"
	"github.com/dharmasatrya/flightoffers/internal/gateway"
	"github.com/dharmasatrya/flightoffers/internal/providers"
	"github.com/dharmasatrya/flightoffers/internal/ratelimit"
)

func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// newStageLimiter gives the token exchange its own bucket; unset auth values
// inherit the search limits.
func newStageLimiter(cfg *config.Config) *ratelimit.StageLimiter {
	limiter := ratelimit.NewStageLimiter(ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.Upstream.RPS,
		BurstSize:         cfg.Upstream.Burst,
	})
	limiter.Limit(ratelimit.StageAuth, ratelimit.RateLimitConfig{
		RequestsPerSecond: cfg.Upstream.AuthRPS,
		BurstSize:         cfg.Upstream.AuthBurst,
	})
	return limiter
}

// Gateway owns the Search Gateway and the resources it holds open.
type Gateway struct {
	*gateway.Gateway
	closerFn map[string]func(context.Context) error
}

func NewGateway(cfg *config.Config, logger *slog.Logger) (*Gateway, error) {
	var upstream providers.Provider
	if cfg.CredentialsConfigured() {
		upstream = providers.NewAmadeusProvider(providers.AmadeusConfig{
			ClientID:      cfg.Upstream.ClientID,
			ClientSecret:  cfg.Upstream.ClientSecret,
			BaseURL:       cfg.Upstream.BaseURL,
			MaxResults:    cfg.Upstream.MaxResults,
			Currency:      cfg.Upstream.Currency,
			AuthTimeout:   cfg.Upstream.AuthTimeout.Duration,
			SearchTimeout: cfg.Upstream.SearchTimeout.Duration,
			Limiter:       newStageLimiter(cfg),
		})
		logger.Info("upstream search enabled", "base_url", cfg.Upstream.BaseURL)
	} else {
		logger.Warn("upstream credentials not configured, all searches use fallback data")
	}

	closers := make(map[string]func(context.Context) error)

	var offerCache cache.Cache
	if cfg.Cache.Enabled {
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Host: cfg.Cache.RedisHost,
			Port: cfg.Cache.RedisPort,
			TTL:  cfg.Cache.TTL.Duration,
		})
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		offerCache = redisCache
		closers["Redis Cache"] = func(context.Context) error { return redisCache.Close() }
		logger.Info("redis cache enabled", "host", cfg.Cache.RedisHost, "port", cfg.Cache.RedisPort, "ttl", cfg.Cache.TTL.Duration)
	} else {
		offerCache = cache.NewNoOpCache()
		logger.Info("cache disabled")
	}

	g, err := gateway.New(gateway.Config{
		Upstream: upstream,
		Cache:    offerCache,
		Logger:   logger,
	})
	if err != nil {
		for _, closer := range closers {
			_ = closer(context.Background())
		}
		return nil, err
	}

	return &Gateway{Gateway: g, closerFn: closers}, nil
}

func (g *Gateway) Close(ctx context.Context) {
	for name, closer := range g.closerFn {
		if err := closer(ctx); err != nil {
			slog.ErrorContext(ctx, "failed to close resources", "name", name, "error", err)
		}
	}
}
