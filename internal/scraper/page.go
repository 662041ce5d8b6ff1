package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// randomDelayDivisor derives the colly random delay from the rate limit.
const randomDelayDivisor = 2

// PageScraper extracts events from generic listing pages using the CSS
// selectors configured per source. Cards without a parseable date go
// through the extraction fallback with the card text as context.
type PageScraper struct {
	deps Deps
}

// NewPageScraper creates a page scraper.
func NewPageScraper(deps Deps) *PageScraper {
	return &PageScraper{deps: deps}
}

// Scrape visits the configured listing page and extracts one draft per
// matched event card.
func (s *PageScraper) Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic) {
	sel := cfg.Options.Selectors
	if sel.Event == "" {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticValidationFailed, cfg.Name,
			"page source has no event selector",
		)}
	}

	collector := colly.NewCollector(
		colly.MaxDepth(1),
		colly.UserAgent(defaultUserAgent),
		colly.StdlibContext(ctx),
	)
	collector.SetRequestTimeout(cfg.Options.Timeout)

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Delay:       cfg.Options.RateLimit,
		RandomDelay: cfg.Options.RateLimit / randomDelayDivisor,
	}); err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticValidationFailed, cfg.Name, err.Error(),
		)}
	}

	var (
		drafts []domain.DraftEvent
		diags  []domain.Diagnostic
	)

	collector.OnHTML(sel.Event, func(e *colly.HTMLElement) {
		draft, cardText := s.extractCard(e, sel, cfg)
		if draft.Title == "" {
			return
		}

		diags = append(diags, enrichIfIncomplete(ctx, s.deps, cfg, &draft, extract.Signals{
			PageText: cardText,
		})...)

		finalizeDraft(&draft, cfg)
		drafts = append(drafts, draft)
	})

	collector.OnError(func(r *colly.Response, err error) {
		diags = append(diags, domain.NewDiagnostic(
			domain.DiagnosticSourceUnavailable, cfg.Name, err.Error(),
		))
	})

	if err := collector.Visit(cfg.URL); err != nil {
		diags = append(diags, domain.NewDiagnostic(
			domain.DiagnosticSourceUnavailable, cfg.Name, err.Error(),
		))
		return nil, diags
	}
	collector.Wait()

	return drafts, diags
}

// extractCard pulls the configured fields out of one event card.
func (s *PageScraper) extractCard(
	e *colly.HTMLElement,
	sel sources.Selectors,
	cfg sources.Config,
) (domain.DraftEvent, string) {
	draft := domain.DraftEvent{
		Title:       childText(e.DOM, sel.Title),
		Description: childText(e.DOM, sel.Description),
		Price:       childText(e.DOM, sel.Price),
		ScrapedAt:   time.Now().UTC(),
	}

	if venue := childText(e.DOM, sel.Venue); venue != "" {
		draft.Location = &domain.Location{Name: venue}
	}

	if sel.Link != "" {
		if href, ok := e.DOM.Find(sel.Link).First().Attr("href"); ok {
			draft.URL = e.Request.AbsoluteURL(href)
		}
	}
	if sel.Image != "" {
		if src, ok := e.DOM.Find(sel.Image).First().Attr("src"); ok {
			draft.ImageURL = e.Request.AbsoluteURL(src)
		}
	}

	// The date cell plus the full card text feed the fallback when the
	// date is not machine-readable.
	cardText := strings.TrimSpace(childText(e.DOM, sel.Date) + "\n" + e.DOM.Text())

	return draft, cardText
}

// childText returns the trimmed text of the first selector match, or the
// empty string when the selector is unset.
func childText(dom *goquery.Selection, selector string) string {
	if selector == "" {
		return ""
	}
	return strings.TrimSpace(dom.Find(selector).First().Text())
}
