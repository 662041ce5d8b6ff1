package scraper

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/postcache"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// socialTitleMaxLen bounds titles derived from the first post line.
const socialTitleMaxLen = 120

// socialFeed is the response shape of a social profile endpoint.
type socialFeed struct {
	Posts []socialPost `json:"posts"`
}

// socialPost is one raw post from a social profile.
type socialPost struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	ImageURL string `json:"image_url"`
	Link     string `json:"link"`
	PostedAt string `json:"posted_at"`
}

// SocialScraper turns social profile posts into drafts. Posts are
// free-form, so nearly every draft goes through the extraction fallback
// with post text plus optical-text output from attached images. A
// persistent per-source cache keyed by a content fingerprint of the raw
// post prevents re-processing; the force-rescan option bypasses it.
type SocialScraper struct {
	deps Deps
}

// NewSocialScraper creates a social scraper.
func NewSocialScraper(deps Deps) *SocialScraper {
	return &SocialScraper{deps: deps}
}

// Scrape fetches the profile posts and converts unseen ones to drafts.
func (s *SocialScraper) Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic) {
	client := NewFetchClient(cfg.Options.Timeout, cfg.Options.RateLimit)

	body, err := client.Get(ctx, cfg.URL)
	if err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticSourceUnavailable, cfg.Name, err.Error(),
		)}
	}

	var feed socialFeed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticParseError, cfg.Name, err.Error(),
		)}
	}

	cache := s.cacheFor(cfg.Name)
	filter := sources.NewFilter(&cfg)

	var (
		drafts []domain.DraftEvent
		diags  []domain.Diagnostic
	)

	for _, post := range feed.Posts {
		if strings.TrimSpace(post.Text) == "" && post.ImageURL == "" {
			continue
		}

		fingerprint := postcache.Fingerprint([]byte(post.Text + "|" + post.ImageURL))

		if cache != nil && !cfg.Options.ForceRescan {
			seen, seenErr := cache.Seen(ctx, fingerprint)
			if seenErr != nil {
				s.deps.Logger.Warn("post cache lookup failed",
					"source", cfg.Name,
					"error", seenErr,
				)
			} else if seen {
				continue
			}
		}

		// Filtered posts never reach OCR or the rate-capped provider.
		// Image-only posts carry no text to judge yet; the normalizer
		// re-applies the filter once OCR and extraction fill them in.
		if text := strings.TrimSpace(post.Text); text != "" {
			if verdict := filter.Evaluate(titleFromPost(post.Text), text); !verdict.Keep {
				s.deps.Logger.Debug("post filtered",
					"source", cfg.Name,
					"reason", verdict.Reason,
				)
				s.markProcessed(ctx, cfg, cache, fingerprint)
				continue
			}
		}

		draft, postDiags := s.processPost(ctx, cfg, post)
		diags = append(diags, postDiags...)
		if draft != nil {
			drafts = append(drafts, *draft)
		}

		s.markProcessed(ctx, cfg, cache, fingerprint)
	}

	return drafts, diags
}

// markProcessed records a post fingerprint in the per-source cache.
func (s *SocialScraper) markProcessed(
	ctx context.Context,
	cfg sources.Config,
	cache postcache.Store,
	fingerprint string,
) {
	if cache == nil {
		return
	}
	if err := cache.Mark(ctx, fingerprint); err != nil {
		s.deps.Logger.Warn("post cache mark failed",
			"source", cfg.Name,
			"error", err,
		)
	}
}

// processPost converts one raw post into a draft via the extraction
// fallback. Returns nil when the post yields no usable event.
func (s *SocialScraper) processPost(
	ctx context.Context,
	cfg sources.Config,
	post socialPost,
) (*domain.DraftEvent, []domain.Diagnostic) {
	draft := domain.DraftEvent{
		Title:       titleFromPost(post.Text),
		Description: strings.TrimSpace(post.Text),
		URL:         post.Link,
		ImageURL:    post.ImageURL,
		ScrapedAt:   time.Now().UTC(),
	}

	sig := extract.Signals{PostText: post.Text}

	if post.ImageURL != "" && s.deps.OCR != nil && s.deps.OCR.Available() {
		ocrText, err := s.deps.OCR.ImageText(ctx, post.ImageURL)
		if err != nil {
			s.deps.Logger.Debug("ocr failed",
				"source", cfg.Name,
				"image", post.ImageURL,
				"error", err,
			)
		} else {
			sig.OCRText = ocrText
		}
	}

	diags := enrichIfIncomplete(ctx, s.deps, cfg, &draft, sig)

	if draft.Title == "" {
		// Nothing recognizable, not even a title. Skip the post.
		return nil, diags
	}

	finalizeDraft(&draft, cfg)
	return &draft, diags
}

// cacheFor returns the per-source post cache, if configured.
func (s *SocialScraper) cacheFor(source string) postcache.Store {
	if s.deps.CacheFor == nil {
		return nil
	}
	return s.deps.CacheFor(source)
}

// titleFromPost derives a draft title from the first non-empty post line.
func titleFromPost(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		// Truncate on a rune boundary; post text is routinely non-ASCII.
		if runes := []rune(line); len(runes) > socialTitleMaxLen {
			line = string(runes[:socialTitleMaxLen])
		}
		return line
	}
	return ""
}
