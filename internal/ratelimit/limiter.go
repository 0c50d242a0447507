package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Upstream call stages limited independently.
const (
	StageAuth   = "auth"
	StageSearch = "search"
)

type RateLimitConfig struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 5,
		BurstSize:         10,
	}
}

// StageLimiter holds one token bucket per upstream stage. Stages without an
// explicit limit get a bucket built from the shared defaults on first use.
type StageLimiter struct {
	mu       sync.Mutex
	defaults RateLimitConfig
	buckets  map[string]*rate.Limiter
}

func NewStageLimiter(defaults RateLimitConfig) *StageLimiter {
	return &StageLimiter{
		defaults: withDefaults(defaults, DefaultConfig()),
		buckets:  make(map[string]*rate.Limiter),
	}
}

// Limit sets the bucket for one stage. Zero fields inherit the shared defaults.
func (l *StageLimiter) Limit(stage string, cfg RateLimitConfig) {
	cfg = withDefaults(cfg, l.defaults)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.buckets[stage] = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize)
}

// Wait blocks until the stage may proceed or ctx is done.
func (l *StageLimiter) Wait(ctx context.Context, stage string) error {
	return l.bucket(stage).Wait(ctx)
}

func (l *StageLimiter) bucket(stage string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[stage]
	if !ok {
		b = rate.NewLimiter(rate.Limit(l.defaults.RequestsPerSecond), l.defaults.BurstSize)
		l.buckets[stage] = b
	}
	return b
}

func withDefaults(cfg, fallback RateLimitConfig) RateLimitConfig {
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = fallback.RequestsPerSecond
	}
	if cfg.BurstSize <= 0 {
		cfg.BurstSize = fallback.BurstSize
	}
	return cfg
}
