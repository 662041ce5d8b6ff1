package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Fetch client defaults.
const (
	defaultUserAgent   = "eventcrawl/1.0 (+https://github.com/jonesrussell/eventcrawl)"
	defaultMaxRetries  = 3
	maxResponseBytes   = 10 << 20 // 10 MiB
	initialRetryDelay  = 500 * time.Millisecond
	maxRetryDelay      = 10 * time.Second
	serverErrorMinCode = 500
)

// ErrSourceUnavailable indicates the endpoint could not be fetched after
// bounded retries. The source contributes zero events; the batch
// continues.
var ErrSourceUnavailable = errors.New("source unavailable")

// FetchClient is the shared HTTP client for feed, API and social
// scrapers. It enforces a per-request timeout, a minimum inter-request
// delay and bounded exponential-backoff retries. Page scrapers use colly
// with an equivalent limit rule instead.
type FetchClient struct {
	httpClient *http.Client
	minDelay   time.Duration
	maxRetries uint64

	mu       sync.Mutex
	lastCall time.Time
}

// NewFetchClient creates a fetch client with the given timeout and
// minimum inter-request delay.
func NewFetchClient(timeout, minDelay time.Duration) *FetchClient {
	return &FetchClient{
		httpClient: &http.Client{Timeout: timeout},
		minDelay:   minDelay,
		maxRetries: defaultMaxRetries,
	}
}

// Get fetches the URL and returns the response body. Transient failures
// (network errors, 5xx, 429) are retried with exponential backoff up to
// the bounded attempt count, then surface as ErrSourceUnavailable.
func (c *FetchClient) Get(ctx context.Context, url string) ([]byte, error) {
	c.throttle()

	var body []byte

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("build request: %w", err))
		}
		req.Header.Set("User-Agent", defaultUserAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", url, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= serverErrorMinCode || resp.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("fetch %s: status %d", url, resp.StatusCode))
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
		if err != nil {
			return fmt.Errorf("read %s: %w", url, err)
		}
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(newExponentialBackOff(), c.maxRetries),
		ctx,
	)

	if err := backoff.Retry(operation, policy); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	return body, nil
}

// throttle enforces the minimum inter-request delay.
func (c *FetchClient) throttle() {
	if c.minDelay <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.lastCall.IsZero() {
		if wait := c.minDelay - time.Since(c.lastCall); wait > 0 {
			time.Sleep(wait)
		}
	}
	c.lastCall = time.Now()
}

// newExponentialBackOff builds the retry policy for one fetch.
func newExponentialBackOff() *backoff.ExponentialBackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = initialRetryDelay
	policy.MaxInterval = maxRetryDelay
	return policy
}
