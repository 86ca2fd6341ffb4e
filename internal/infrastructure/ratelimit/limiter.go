// Package ratelimit provides in-process, per-client request throttling.
package ratelimit

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/turtacn/xpx/pkg/constants"
)

// Config holds the parameters shared by every bucket in a pool.
type Config struct {
	// RPS is the sustained number of requests allowed per second
	RPS float64
	// Burst is the number of requests that may arrive at once
	Burst int
	// TTL is how long an idle client's bucket is remembered
	TTL time.Duration
}

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed    bool
	Limit      int
	RetryAfter time.Duration
}

// KeyedLimiter hands each key its own token bucket. Idle buckets expire from
// the cache, so a client that goes quiet starts again with a full burst.
type KeyedLimiter struct {
	cfg     Config
	buckets *cache.Cache
	mu      sync.Mutex
	now     func() time.Time
}

// NewKeyedLimiter creates a limiter pool.
//
// Parameters:
//   - cfg: Bucket parameters; zero values fall back to the service defaults
//
// Returns:
//   - *KeyedLimiter: Initialized pool
func NewKeyedLimiter(cfg Config) *KeyedLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = constants.DefaultRateLimitRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = constants.DefaultRateLimitBurst
	}
	if cfg.TTL <= 0 {
		cfg.TTL = constants.DefaultRateLimitTTL
	}
	return &KeyedLimiter{
		cfg:     cfg,
		buckets: cache.New(cfg.TTL, 2*cfg.TTL),
		now:     time.Now,
	}
}

// Allow consumes one token from key's bucket.
//
// Parameters:
//   - key: Client identifier, e.g. the remote IP
//
// Returns:
//   - Decision: Whether the request may proceed and, if not, when to retry
func (l *KeyedLimiter) Allow(key string) Decision {
	return decide(l.bucket(key), l.cfg.Burst, l.now())
}

func (l *KeyedLimiter) bucket(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lim *rate.Limiter
	if v, ok := l.buckets.Get(key); ok {
		lim = v.(*rate.Limiter)
	} else {
		lim = rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)
	}
	// Re-set on every access so the TTL slides with activity.
	l.buckets.SetDefault(key, lim)
	return lim
}

// Size returns the number of clients currently tracked.
func (l *KeyedLimiter) Size() int {
	return l.buckets.ItemCount()
}

// GlobalLimiter throttles all callers together.
type GlobalLimiter struct {
	lim   *rate.Limiter
	burst int
	now   func() time.Time
}

// NewGlobalLimiter creates a single shared bucket.
func NewGlobalLimiter(rps float64, burst int) *GlobalLimiter {
	return &GlobalLimiter{
		lim:   rate.NewLimiter(rate.Limit(rps), burst),
		burst: burst,
		now:   time.Now,
	}
}

// Allow consumes one token from the shared bucket.
func (g *GlobalLimiter) Allow() Decision {
	return decide(g.lim, g.burst, g.now())
}

func decide(lim *rate.Limiter, burst int, now time.Time) Decision {
	r := lim.ReserveN(now, 1)
	if !r.OK() {
		return Decision{Allowed: false, Limit: burst}
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return Decision{Allowed: false, Limit: burst, RetryAfter: delay}
	}
	return Decision{Allowed: true, Limit: burst}
}
