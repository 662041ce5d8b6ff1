package scraper

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// FeedScraper reads RSS and Atom feeds. Feed items rarely carry a
// structured event date, so items whose text yields no parseable start
// time go through the extraction fallback.
type FeedScraper struct {
	deps Deps
}

// NewFeedScraper creates a feed scraper.
func NewFeedScraper(deps Deps) *FeedScraper {
	return &FeedScraper{deps: deps}
}

// Scrape fetches and parses the configured feed.
func (s *FeedScraper) Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic) {
	client := NewFetchClient(cfg.Options.Timeout, cfg.Options.RateLimit)

	body, err := client.Get(ctx, cfg.URL)
	if err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticSourceUnavailable, cfg.Name, err.Error(),
		)}
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticParseError, cfg.Name, err.Error(),
		)}
	}

	var diags []domain.Diagnostic
	drafts := make([]domain.DraftEvent, 0, len(parsed.Items))

	for _, item := range parsed.Items {
		if item.Title == "" {
			continue
		}

		draft := domain.DraftEvent{
			Title:       item.Title,
			Description: item.Description,
			URL:         item.Link,
			ScrapedAt:   time.Now().UTC(),
		}
		if item.PublishedParsed != nil {
			// Publication time is a hint only; the event date usually
			// lives in the item text.
			draft.ScrapedAt = item.PublishedParsed.UTC()
		}
		if img := item.Image; img != nil {
			draft.ImageURL = img.URL
		}
		if len(item.Categories) > 0 {
			draft.Category = domain.NormalizeCategory(item.Categories[0])
		}

		diags = append(diags, enrichIfIncomplete(ctx, s.deps, cfg, &draft, extract.Signals{
			PostText: item.Title + "\n" + item.Description,
		})...)

		finalizeDraft(&draft, cfg)
		drafts = append(drafts, draft)
	}

	return drafts, diags
}
