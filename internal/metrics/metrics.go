// Package metrics exposes the pipeline's run counters as Prometheus
// metrics. The counters mirror the per-run counts that are the only
// user-visible failure surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	EventsScraped  *prometheus.CounterVec
	EventsAdded    prometheus.Counter
	Duplicates     prometheus.Counter
	Rejected       prometheus.Counter
	SourceErrors   *prometheus.CounterVec
	ProviderCalls  prometheus.Counter
	SessionRotates prometheus.Counter
}

// New creates the metric set on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		EventsScraped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventcrawl_events_scraped_total",
			Help: "Draft events produced by scrapers, per source.",
		}, []string{"source"}),
		EventsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrawl_events_added_total",
			Help: "Drafts that cleared deduplication and entered the queue.",
		}),
		Duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrawl_duplicates_total",
			Help: "Drafts dropped as duplicates.",
		}),
		Rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrawl_rejected_total",
			Help: "Drafts dropped by rejection memory.",
		}),
		SourceErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "eventcrawl_source_errors_total",
			Help: "Diagnostics reported per source and kind.",
		}, []string{"source", "kind"}),
		ProviderCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrawl_provider_calls_total",
			Help: "Extraction provider calls made.",
		}),
		SessionRotates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "eventcrawl_provider_session_rotations_total",
			Help: "Extraction sessions exhausted and rotated.",
		}),
	}

	registry.MustRegister(
		m.EventsScraped,
		m.EventsAdded,
		m.Duplicates,
		m.Rejected,
		m.SourceErrors,
		m.ProviderCalls,
		m.SessionRotates,
	)

	return m
}

// Registry returns the underlying registry, for wiring a /metrics
// endpoint in deployments that want one.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
