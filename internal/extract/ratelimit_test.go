package extract_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/testutils"
)

func TestRateLimiter_EnforcesMinimumDelay(t *testing.T) {
	t.Parallel()

	clock := testutils.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := extract.NewRateLimiterWithClock(extract.RateLimiterConfig{
		MinDelay: 2 * time.Second,
		MaxDelay: 5 * time.Second,
	}, clock)

	ctx := context.Background()
	const calls = 6

	for i := 0; i < calls; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}

	// N calls must spread over at least (N-1) minimum delays. The first
	// call is immediate; every later one waits at least MinDelay.
	minTotal := time.Duration(calls-1) * 2 * time.Second
	assert.GreaterOrEqual(t, clock.TotalSlept(), minTotal)

	// And no single gap exceeds the randomized maximum.
	for _, slept := range clock.Slept() {
		assert.LessOrEqual(t, slept, 5*time.Second)
	}
}

func TestRateLimiter_FirstCallImmediate(t *testing.T) {
	t.Parallel()

	clock := testutils.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := extract.NewRateLimiterWithClock(extract.RateLimiterConfig{
		MinDelay: 2 * time.Second,
		MaxDelay: 5 * time.Second,
	}, clock)

	require.NoError(t, limiter.Acquire(context.Background()))
	assert.Empty(t, clock.Slept())
}

func TestRateLimiter_SessionCap(t *testing.T) {
	t.Parallel()

	clock := testutils.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := extract.NewRateLimiterWithClock(extract.RateLimiterConfig{
		MinDelay:   time.Millisecond,
		MaxDelay:   time.Millisecond,
		SessionCap: 3,
	}, clock)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Acquire(ctx))
	}
	assert.Equal(t, 3, limiter.Calls())

	// The cap is a hard stop.
	err := limiter.Acquire(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, extract.ErrSessionExhausted))

	// Rotating starts a fresh session.
	limiter.Rotate()
	assert.Equal(t, 0, limiter.Calls())
	require.NoError(t, limiter.Acquire(ctx))
}

func TestRateLimiter_ElapsedTimeIntegration(t *testing.T) {
	t.Parallel()

	// When real time passes between calls, the limiter only sleeps the
	// remainder of the randomized delay.
	clock := testutils.NewFakeClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	limiter := extract.NewRateLimiterWithClock(extract.RateLimiterConfig{
		MinDelay: 4 * time.Second,
		MaxDelay: 4 * time.Second,
	}, clock)

	ctx := context.Background()
	require.NoError(t, limiter.Acquire(ctx))

	clock.Advance(3 * time.Second)
	require.NoError(t, limiter.Acquire(ctx))

	slept := clock.Slept()
	require.Len(t, slept, 1)
	assert.Equal(t, time.Second, slept[0])
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	limiter := extract.NewRateLimiter(extract.DefaultRateLimiterConfig())
	assert.Error(t, limiter.Acquire(ctx))
}
