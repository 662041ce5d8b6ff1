// Package common wires the application dependencies for the CLI
// commands: configuration, logging, stores, the extraction provider and
// the ingestion runner.
package common

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/eventcrawl/internal/config"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/logger"
	"github.com/jonesrussell/eventcrawl/internal/metrics"
	"github.com/jonesrussell/eventcrawl/internal/pipeline"
	"github.com/jonesrussell/eventcrawl/internal/postcache"
	"github.com/jonesrussell/eventcrawl/internal/queue"
	"github.com/jonesrussell/eventcrawl/internal/scraper"
	"github.com/jonesrussell/eventcrawl/internal/sources"
	"github.com/jonesrussell/eventcrawl/internal/storage"
)

// redisPingTimeout bounds the optional Redis availability probe.
const redisPingTimeout = 2 * time.Second

// Deps bundles everything a command needs.
type Deps struct {
	Config  *config.Config
	Logger  logger.Interface
	Queue   *queue.Manager
	Runner  *pipeline.Runner
	Loader  *sources.Loader
	Metrics *metrics.Metrics
}

// Build constructs the full dependency graph from the loaded
// configuration.
func Build() (*Deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logger
	if cfg.App.Debug {
		logCfg.Level = logger.DebugLevel
		logCfg.Development = true
	}
	log, err := logger.New(&logCfg)
	if err != nil {
		return nil, err
	}

	stores := pipeline.Stores{
		Pending:    storage.NewPendingStore(cfg.PendingFile()),
		Published:  storage.NewPublishedStore(cfg.PublishedFile()),
		Rejected:   storage.NewRejectedStore(cfg.RejectedFile()),
		Locations:  storage.NewLocationLibrary(cfg.LocationsFile()),
		Organizers: storage.NewOrganizerLibrary(cfg.OrganizersFile()),
	}

	queueManager := queue.NewManager(stores.Pending, stores.Published, stores.Rejected, log)

	tz := cfg.Location()
	limiter := extract.NewRateLimiter(extract.RateLimiterConfig{
		MinDelay:   cfg.Extraction.MinDelay,
		MaxDelay:   cfg.Extraction.MaxDelay,
		SessionCap: cfg.Extraction.SessionCap,
	})
	enricher := extract.NewEnricher(buildProvider(cfg, log), limiter, tz, log)

	m := metrics.New()
	enricher.SetHooks(extract.Hooks{
		ProviderCall:     m.ProviderCalls.Inc,
		SessionExhausted: m.SessionRotates.Inc,
	})

	deps := scraper.Deps{
		Logger:   log,
		Enricher: enricher,
		OCR:      extract.NoOpOCR{},
		CacheFor: cacheFactory(cfg, log),
	}

	runner := pipeline.NewRunner(
		scraper.DefaultRegistry(),
		deps,
		pipeline.NewNormalizer(tz),
		queueManager,
		stores,
		m,
		log,
		cfg.Ingest.Concurrency,
	)

	return &Deps{
		Config:  cfg,
		Logger:  log,
		Queue:   queueManager,
		Runner:  runner,
		Loader:  sources.NewLoader(cfg.Ingest.SourcesFile, log),
		Metrics: m,
	}, nil
}

// buildProvider selects the extraction provider. The heuristic provider
// is the fallback whenever the generative provider is not configured.
func buildProvider(cfg *config.Config, log logger.Interface) extract.Provider {
	if cfg.Extraction.Provider == "anthropic" && cfg.Extraction.AnthropicAPIKey != "" {
		return extract.NewAnthropicProvider(cfg.Extraction.AnthropicAPIKey, cfg.Extraction.Model)
	}
	if cfg.Extraction.Provider == "anthropic" {
		log.Warn("anthropic provider selected but no API key configured, using heuristic provider")
	}
	return extract.NewHeuristicProvider(cfg.Location())
}

// cacheFactory returns the per-source post-cache constructor. When Redis
// is configured and reachable the shared Redis cache is used; otherwise
// each source gets a file-backed cache.
func cacheFactory(cfg *config.Config, log logger.Interface) func(source string) postcache.Store {
	var client *redis.Client
	if cfg.Redis.Addr != "" {
		client = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Warn("redis unreachable, falling back to file post cache",
				"addr", cfg.Redis.Addr,
				"error", err,
			)
			client = nil
		}
	}

	return func(source string) postcache.Store {
		if client != nil {
			return postcache.NewRedisStore(client, source, 0)
		}
		return postcache.NewFileStore(cfg.PostCacheFile(source), 0)
	}
}
