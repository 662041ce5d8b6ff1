// Package scraper provides the scraper registry and one scraper
// implementation per external format family: feeds, generic pages, JSON
// APIs and social profiles. A scraper turns raw content into zero or more
// draft events and never lets a failure escape its own boundary.
package scraper

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/postcache"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// Scraper is the uniform contract every source handler implements.
// Internal failures become an empty result plus diagnostics; a scraper
// must respect the per-source timeout and minimum inter-request delay
// from the source config.
type Scraper interface {
	Scrape(ctx context.Context, cfg sources.Config) ([]domain.DraftEvent, []domain.Diagnostic)
}

// Deps carries the shared collaborators handed to scraper constructors.
type Deps struct {
	Logger   logger.Interface
	Enricher *extract.Enricher
	OCR      extract.OCR
	// CacheFor returns the per-source post cache for social sources.
	CacheFor func(source string) postcache.Store
}

// Constructor builds a scraper for one source type tag.
type Constructor func(deps Deps) Scraper

// Registry maps source type tags to scraper constructors. Unknown tags
// are a data error reported by Resolve, never a crash.
type Registry struct {
	mu           sync.RWMutex
	constructors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		constructors: make(map[string]Constructor),
	}
}

// DefaultRegistry returns a registry with the built-in scraper families
// registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(sources.TypeFeed, func(deps Deps) Scraper { return NewFeedScraper(deps) })
	r.Register(sources.TypePage, func(deps Deps) Scraper { return NewPageScraper(deps) })
	r.Register(sources.TypeAPI, func(deps Deps) Scraper { return NewAPIScraper(deps) })
	r.Register(sources.TypeSocial, func(deps Deps) Scraper { return NewSocialScraper(deps) })
	return r
}

// Register adds a constructor for a type tag, replacing any previous
// registration.
func (r *Registry) Register(typeTag string, constructor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.constructors[typeTag] = constructor
}

// Resolve returns the constructor for a type tag.
func (r *Registry) Resolve(typeTag string) (Constructor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	constructor, ok := r.constructors[typeTag]
	if !ok {
		return nil, fmt.Errorf("%w: %s", sources.ErrUnregisteredType, typeTag)
	}
	return constructor, nil
}

// Types returns the registered type tags.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.constructors))
	for tag := range r.constructors {
		types = append(types, tag)
	}
	return types
}

// SafeScrape runs a scraper and converts a panic into a diagnostic, so
// one misbehaving handler cannot abort the batch.
func SafeScrape(ctx context.Context, s Scraper, cfg sources.Config) (drafts []domain.DraftEvent, diags []domain.Diagnostic) {
	defer func() {
		if r := recover(); r != nil {
			drafts = nil
			diags = append(diags, domain.NewDiagnostic(
				domain.DiagnosticParseError,
				cfg.Name,
				fmt.Sprintf("scraper panic: %v", r),
			))
		}
	}()

	return s.Scrape(ctx, cfg)
}

// finalizeDraft stamps attribution, the deterministic draft id and the
// default fallback location onto a scraped draft.
func finalizeDraft(draft *domain.DraftEvent, cfg sources.Config) {
	draft.Source = cfg.Name
	draft.ID = domain.DraftID(cfg.Name, draft.Title, draft.StartTime)

	if draft.Location == nil && draft.LocationID == "" && cfg.Options.DefaultLocation != nil {
		draft.Location = &domain.Location{
			Name: cfg.Options.DefaultLocation.Name,
			Lat:  cfg.Options.DefaultLocation.Lat,
			Lon:  cfg.Options.DefaultLocation.Lon,
		}
	}
}
