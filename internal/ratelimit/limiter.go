package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// UpstreamLimiter keeps one token bucket per upstream key, created lazily
// with the default limits.
type UpstreamLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.RWMutex
	defaults Config
}

type Config struct {
	RequestsPerSecond float64
	BurstSize         int
}

func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		BurstSize:         5,
	}
}

func New(config Config) *UpstreamLimiter {
	if config.RequestsPerSecond <= 0 {
		config.RequestsPerSecond = DefaultConfig().RequestsPerSecond
	}
	if config.BurstSize <= 0 {
		config.BurstSize = 1
	}
	return &UpstreamLimiter{
		limiters: make(map[string]*rate.Limiter),
		defaults: config,
	}
}

func NewWithDefaults() *UpstreamLimiter {
	return New(DefaultConfig())
}

func (u *UpstreamLimiter) Limiter(key string) *rate.Limiter {
	u.mu.RLock()
	limiter, exists := u.limiters[key]
	u.mu.RUnlock()

	if exists {
		return limiter
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if limiter, exists = u.limiters[key]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rate.Limit(u.defaults.RequestsPerSecond), u.defaults.BurstSize)
	u.limiters[key] = limiter
	return limiter
}

func (u *UpstreamLimiter) SetLimit(key string, rps float64, burst int) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.limiters[key] = rate.NewLimiter(rate.Limit(rps), burst)
}

// Wait blocks until a token for key is available or ctx is done.
func (u *UpstreamLimiter) Wait(ctx context.Context, key string) error {
	return u.Limiter(key).Wait(ctx)
}
