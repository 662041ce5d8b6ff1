package pipeline

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/entity"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/metrics"
	"github.com/jonesrussell/eventcrawl/internal/queue"
	"github.com/jonesrussell/eventcrawl/internal/scraper"
	"github.com/jonesrussell/eventcrawl/internal/sources"
	"github.com/jonesrussell/eventcrawl/internal/storage"
)

// defaultConcurrency bounds the scraper worker pool.
const defaultConcurrency = 4

// Stores bundles the file stores one run reads and writes.
type Stores struct {
	Pending    *storage.PendingStore
	Published  *storage.PublishedStore
	Rejected   *storage.RejectedStore
	Locations  *storage.LocationLibrary
	Organizers *storage.OrganizerLibrary
}

// Runner executes ingestion runs. Queue writes are single-writer: the
// runner collects all drafts first and performs one serialized enqueue,
// even though scraping runs in parallel.
type Runner struct {
	registry    *scraper.Registry
	deps        scraper.Deps
	normalizer  *Normalizer
	queue       *queue.Manager
	stores      Stores
	metrics     *metrics.Metrics
	logger      logger.Interface
	concurrency int
}

// NewRunner creates a runner. concurrency <= 0 selects the default pool
// size.
func NewRunner(
	registry *scraper.Registry,
	deps scraper.Deps,
	normalizer *Normalizer,
	q *queue.Manager,
	stores Stores,
	m *metrics.Metrics,
	log logger.Interface,
	concurrency int,
) *Runner {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Runner{
		registry:    registry,
		deps:        deps,
		normalizer:  normalizer,
		queue:       q,
		stores:      stores,
		metrics:     m,
		logger:      log,
		concurrency: concurrency,
	}
}

// Result summarizes one ingestion run.
type Result struct {
	Counts      domain.RunCounts
	Diagnostics []domain.Diagnostic
	Usage       map[string]entity.UsageStats
}

// sourceResult is the outcome of scraping one source.
type sourceResult struct {
	cfg    sources.Config
	drafts []domain.DraftEvent
	diags  []domain.Diagnostic
}

// Run ingests all enabled sources. A per-source failure is isolated and
// reported; the result is the best-effort union of all sources that
// succeeded.
func (r *Runner) Run(ctx context.Context, configs []sources.Config) (*Result, error) {
	started := time.Now()
	result := &Result{}

	results := r.scrapeAll(ctx, configs)

	known, rejection, err := r.loadHistory()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	resolver, err := r.newResolver()
	if err != nil {
		return nil, fmt.Errorf("load entity libraries: %w", err)
	}

	deduper := NewDeduper(known, rejection)

	var toQueue, toAutoPublish []domain.DraftEvent

	for _, res := range results {
		filter := sources.NewFilter(&res.cfg)
		result.Diagnostics = append(result.Diagnostics, res.diags...)
		result.Counts.Scraped += len(res.drafts)
		r.countDiagnostics(res.diags)

		for i := range res.drafts {
			draft := &res.drafts[i]

			if verdict := r.normalizer.Normalize(draft, res.cfg, filter); !verdict.Keep {
				r.logger.Debug("draft dropped by filter",
					"source", draft.Source,
					"title", draft.Title,
					"reason", verdict.Reason,
				)
				continue
			}

			switch deduper.Check(draft) {
			case OutcomeRejected:
				result.Counts.Rejected++
				if r.metrics != nil {
					r.metrics.Rejected.Inc()
				}
				continue
			case OutcomeDuplicate:
				result.Counts.Duplicates++
				if r.metrics != nil {
					r.metrics.Duplicates.Inc()
				}
				continue
			case OutcomeNew:
			}

			draft.Location = resolver.ResolveLocation(draft)
			draft.Organizer = resolver.ResolveOrganizer(draft)

			if res.cfg.Options.TrustAutoPublish {
				toAutoPublish = append(toAutoPublish, *draft)
			} else {
				toQueue = append(toQueue, *draft)
			}
		}
	}

	if _, err := r.queue.Enqueue(toQueue); err != nil {
		return nil, fmt.Errorf("enqueue drafts: %w", err)
	}
	if err := r.queue.AutoPublish(toAutoPublish); err != nil {
		return nil, fmt.Errorf("auto-publish drafts: %w", err)
	}

	result.Counts.Added = len(toQueue) + len(toAutoPublish)
	result.Counts.Errors = len(result.Diagnostics)
	result.Usage = resolver.Usage()

	if r.metrics != nil {
		r.metrics.EventsAdded.Add(float64(result.Counts.Added))
	}

	r.logger.Info("ingestion run finished",
		"scraped", result.Counts.Scraped,
		"added", result.Counts.Added,
		"duplicates", result.Counts.Duplicates,
		"rejected", result.Counts.Rejected,
		"errors", result.Counts.Errors,
		"duration", time.Since(started),
	)

	return result, nil
}

// scrapeAll runs every enabled source through the bounded worker pool.
// Results come back in config order.
func (r *Runner) scrapeAll(ctx context.Context, configs []sources.Config) []sourceResult {
	results := make([]sourceResult, len(configs))

	sem := make(chan struct{}, r.concurrency)
	var wg sync.WaitGroup

	for i, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		constructor, err := r.registry.Resolve(cfg.Type)
		if err != nil {
			r.logger.Warn("source skipped",
				"source", cfg.Name,
				"type", cfg.Type,
				"error", err,
			)
			results[i] = sourceResult{cfg: cfg, diags: []domain.Diagnostic{
				domain.NewDiagnostic(domain.DiagnosticUnregisteredType, cfg.Name, err.Error()),
			}}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}

		go func(i int, cfg sources.Config) {
			defer func() {
				<-sem
				wg.Done()
			}()

			log := r.logger.WithSource(cfg.Name)
			log.Debug("scraping source", "type", cfg.Type, "url", cfg.URL)

			drafts, diags := scraper.SafeScrape(ctx, constructor(r.deps), cfg)
			results[i] = sourceResult{cfg: cfg, drafts: drafts, diags: diags}

			if r.metrics != nil {
				r.metrics.EventsScraped.WithLabelValues(cfg.Name).Add(float64(len(drafts)))
			}
			log.Info("source scraped",
				"drafts", len(drafts),
				"diagnostics", len(diags),
			)
		}(i, cfg)
	}

	wg.Wait()
	return results
}

// loadHistory builds the known-hash set (pending queue plus published
// set) and the rejection-memory keys.
func (r *Runner) loadHistory() (known, rejection map[string]struct{}, err error) {
	known, err = r.stores.Published.Hashes()
	if err != nil {
		return nil, nil, err
	}

	items, err := r.stores.Pending.Load()
	if err != nil {
		return nil, nil, err
	}
	for _, item := range items {
		if item.Event.ContentHash != "" {
			known[item.Event.ContentHash] = struct{}{}
		}
	}

	rejection, err = r.stores.Rejected.Keys()
	if err != nil {
		return nil, nil, err
	}
	return known, rejection, nil
}

// newResolver snapshots the entity libraries for this run.
func (r *Runner) newResolver() (*entity.Resolver, error) {
	locations, err := r.stores.Locations.Load()
	if err != nil {
		return nil, err
	}
	organizers, err := r.stores.Organizers.Load()
	if err != nil {
		return nil, err
	}
	return entity.NewResolver(locations, organizers, r.logger), nil
}

// countDiagnostics mirrors diagnostics into the error counters.
func (r *Runner) countDiagnostics(diags []domain.Diagnostic) {
	if r.metrics == nil {
		return
	}
	for _, diag := range diags {
		r.metrics.SourceErrors.WithLabelValues(diag.Source, string(diag.Kind)).Inc()
	}
}
