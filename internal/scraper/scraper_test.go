package scraper_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/scraper"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// testDeps builds scraper deps with a deterministic enricher and no OCR.
func testDeps() scraper.Deps {
	limiter := extract.NewRateLimiter(extract.RateLimiterConfig{})
	enricher := extract.NewEnricher(
		extract.NewHeuristicProvider(time.UTC), limiter, time.UTC, logger.NewNoOp(),
	)
	return scraper.Deps{
		Logger:   logger.NewNoOp(),
		Enricher: enricher,
		OCR:      extract.NoOpOCR{},
	}
}

// countingProvider records how often it was called. It proves which
// drafts reached the extraction fallback.
type countingProvider struct {
	calls int
}

func (p *countingProvider) Name() string    { return "counting" }
func (p *countingProvider) Available() bool { return true }

func (p *countingProvider) ExtractEventInfo(ctx context.Context, text string) (*extract.Extraction, error) {
	p.calls++
	return &extract.Extraction{}, nil
}

// countingDeps builds scraper deps around a call-counting provider.
func countingDeps() (scraper.Deps, *countingProvider) {
	provider := &countingProvider{}
	limiter := extract.NewRateLimiter(extract.RateLimiterConfig{})
	enricher := extract.NewEnricher(provider, limiter, time.UTC, logger.NewNoOp())
	return scraper.Deps{
		Logger:   logger.NewNoOp(),
		Enricher: enricher,
		OCR:      extract.NoOpOCR{},
	}, provider
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry := scraper.DefaultRegistry()

	for _, tag := range []string{
		sources.TypeFeed, sources.TypePage, sources.TypeAPI, sources.TypeSocial,
	} {
		constructor, err := registry.Resolve(tag)
		require.NoError(t, err, tag)
		assert.NotNil(t, constructor(testDeps()), tag)
	}

	assert.Len(t, registry.Types(), 4)
}

func TestRegistry_UnknownTag(t *testing.T) {
	t.Parallel()

	registry := scraper.DefaultRegistry()

	_, err := registry.Resolve("telepathy")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sources.ErrUnregisteredType))
}

func TestRegistry_CustomHandler(t *testing.T) {
	t.Parallel()

	registry := scraper.NewRegistry()
	registry.Register("custom", func(deps scraper.Deps) scraper.Scraper {
		return panicScraper{}
	})

	constructor, err := registry.Resolve("custom")
	require.NoError(t, err)
	assert.NotNil(t, constructor(testDeps()))
}

// panicScraper always panics, for SafeScrape coverage.
type panicScraper struct{}

func (panicScraper) Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic) {
	panic("deliberate test panic")
}

func TestSafeScrape_PanicBecomesDiagnostic(t *testing.T) {
	t.Parallel()

	cfg := sources.Config{Name: "panicky", Type: "custom"}
	drafts, diags := scraper.SafeScrape(context.Background(), panicScraper{}, cfg)

	assert.Empty(t, drafts)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.DiagnosticParseError, diags[0].Kind)
	assert.Equal(t, "panicky", diags[0].Source)
	assert.Contains(t, diags[0].Message, "deliberate test panic")
}
