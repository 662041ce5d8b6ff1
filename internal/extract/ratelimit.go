package extract

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Clock abstracts time for the rate limiter so tests can drive it with a
// fake clock.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// systemClock is the real clock.
type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// RateLimiterConfig configures provider call pacing.
type RateLimiterConfig struct {
	// MinDelay is the minimum gap between consecutive provider calls.
	MinDelay time.Duration
	// MaxDelay bounds the randomized gap. Must be >= MinDelay.
	MaxDelay time.Duration
	// SessionCap is the hard per-session call limit. Zero means no cap.
	SessionCap int
}

// DefaultRateLimiterConfig returns conservative pacing defaults.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		MinDelay:   2 * time.Second,
		MaxDelay:   6 * time.Second,
		SessionCap: 40,
	}
}

// RateLimiter mediates all calls to one extraction provider. It is the
// single shared mutating resource of the fallback pipeline, so every
// acquisition is serialized behind one mutex: the minimum-delay invariant
// holds even under concurrent callers.
type RateLimiter struct {
	cfg   RateLimiterConfig
	clock Clock
	rng   *rand.Rand

	mu       sync.Mutex
	lastCall time.Time
	calls    int
}

// NewRateLimiter creates a rate limiter with the real clock.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	return NewRateLimiterWithClock(cfg, systemClock{})
}

// NewRateLimiterWithClock creates a rate limiter with an injected clock.
func NewRateLimiterWithClock(cfg RateLimiterConfig, clock Clock) *RateLimiter {
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	return &RateLimiter{
		cfg:   cfg,
		clock: clock,
		rng:   rand.New(rand.NewSource(clock.Now().UnixNano())),
	}
}

// Acquire blocks until the next provider call is allowed. It returns
// ErrSessionExhausted once the session cap is reached; the caller must
// Rotate before acquiring again.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if l.cfg.SessionCap > 0 && l.calls >= l.cfg.SessionCap {
		return ErrSessionExhausted
	}

	if !l.lastCall.IsZero() {
		wait := l.delay() - l.clock.Now().Sub(l.lastCall)
		if wait > 0 {
			l.clock.Sleep(wait)
		}
	}

	l.lastCall = l.clock.Now()
	l.calls++
	return nil
}

// Rotate starts a fresh session, resetting the call counter.
func (l *RateLimiter) Rotate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = 0
}

// Calls returns the number of calls made in the current session.
func (l *RateLimiter) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

// delay picks a randomized gap in [MinDelay, MaxDelay].
func (l *RateLimiter) delay() time.Duration {
	spread := l.cfg.MaxDelay - l.cfg.MinDelay
	if spread <= 0 {
		return l.cfg.MinDelay
	}
	return l.cfg.MinDelay + time.Duration(l.rng.Int63n(int64(spread)+1))
}
