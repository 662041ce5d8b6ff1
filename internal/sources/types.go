// Package sources provides source configuration loading, the scraper
// registry and the capability filter.
package sources

import (
	"time"
)

// Type tags understood by the registry. Hand-written adapters register
// their own tags at startup.
const (
	TypeFeed   = "feed"
	TypePage   = "page"
	TypeAPI    = "api"
	TypeSocial = "social"
)

// DefaultLocation is a fallback location attached to drafts from sources
// that rarely state a venue.
type DefaultLocation struct {
	Name string  `mapstructure:"name" yaml:"name"`
	Lat  float64 `mapstructure:"lat" yaml:"lat"`
	Lon  float64 `mapstructure:"lon" yaml:"lon"`
}

// Options holds the per-source tuning knobs. All fields are optional.
type Options struct {
	// FilterAds enables the ad-heuristic part of the capability filter.
	FilterAds bool `mapstructure:"filter_ads" yaml:"filter_ads"`
	// ExcludeKeywords drops drafts whose title or description contains
	// any of these substrings (case-insensitive).
	ExcludeKeywords []string `mapstructure:"exclude_keywords" yaml:"exclude_keywords"`
	// IncludeKeywords, when non-empty, keeps only drafts containing at
	// least one of these substrings.
	IncludeKeywords []string `mapstructure:"include_keywords" yaml:"include_keywords"`
	// MaxDaysAhead drops drafts starting further in the future.
	MaxDaysAhead int `mapstructure:"max_days_ahead" yaml:"max_days_ahead"`
	// AIProvider selects the extraction provider for this source.
	AIProvider string `mapstructure:"ai_provider" yaml:"ai_provider"`
	// DefaultLocation is attached when a draft has no location at all.
	DefaultLocation *DefaultLocation `mapstructure:"default_location" yaml:"default_location"`
	// RateLimit overrides the minimum inter-request delay.
	RateLimit time.Duration `mapstructure:"rate_limit" yaml:"rate_limit"`
	// Timeout overrides the per-source request timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	// ForceRescan bypasses the per-source post cache.
	ForceRescan bool `mapstructure:"force_rescan" yaml:"force_rescan"`
	// TrustAutoPublish lets the queue skip the pending stop for this
	// source. Normalization and resolution still apply.
	TrustAutoPublish bool `mapstructure:"trust_auto_publish" yaml:"trust_auto_publish"`
	// Selectors holds CSS selectors for page sources.
	Selectors Selectors `mapstructure:"selectors" yaml:"selectors"`
}

// Selectors defines the CSS selectors used by page sources to locate
// event cards and their fields.
type Selectors struct {
	// Container matching one event card on a listing page
	Event string `mapstructure:"event" yaml:"event"`
	// Fields within the event container
	Title       string `mapstructure:"title" yaml:"title"`
	Description string `mapstructure:"description" yaml:"description"`
	Date        string `mapstructure:"date" yaml:"date"`
	Venue       string `mapstructure:"venue" yaml:"venue"`
	Link        string `mapstructure:"link" yaml:"link"`
	Image       string `mapstructure:"image" yaml:"image"`
	Price       string `mapstructure:"price" yaml:"price"`
}

// Config represents one immutable source configuration. Configs are
// supplied externally and never mutated by the pipeline.
type Config struct {
	// Name identifies the source in attribution and diagnostics.
	Name string `mapstructure:"name" yaml:"name"`
	// Type selects the scraper constructor in the registry.
	Type string `mapstructure:"type" yaml:"type"`
	// URL is the endpoint the scraper fetches.
	URL string `mapstructure:"url" yaml:"url"`
	// Enabled sources participate in ingestion runs.
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
	// Options holds per-source tuning.
	Options Options `mapstructure:"options" yaml:"options"`
}
