// Package config provides application configuration loaded through viper
// from config.yaml and environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/jonesrussell/eventcrawl/internal/logger"
)

// Default configuration values.
const (
	defaultDataDir     = "data"
	defaultSourcesFile = "sources.yaml"
	defaultTimezone    = "Europe/Berlin"
	defaultConcurrency = 4
)

// Config represents the application configuration.
type Config struct {
	// App holds application-level settings.
	App AppConfig `mapstructure:"app"`
	// Logger holds logging settings.
	Logger logger.Config `mapstructure:"logger"`
	// Ingest holds pipeline settings.
	Ingest IngestConfig `mapstructure:"ingest"`
	// Extraction holds provider settings.
	Extraction ExtractionConfig `mapstructure:"extraction"`
	// Redis holds the optional shared post-cache backend.
	Redis RedisConfig `mapstructure:"redis"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	// Environment is the application environment (development, staging, production)
	Environment string `mapstructure:"environment"`
	// Debug enables debug logging
	Debug bool `mapstructure:"debug"`
}

// IngestConfig holds pipeline settings.
type IngestConfig struct {
	// DataDir is the directory holding all produced JSON files.
	DataDir string `mapstructure:"data_dir"`
	// SourcesFile is the path of the source configuration file.
	SourcesFile string `mapstructure:"sources_file"`
	// Timezone is the canonical timezone for normalized timestamps.
	Timezone string `mapstructure:"timezone"`
	// Concurrency bounds the scraper worker pool.
	Concurrency int `mapstructure:"concurrency"`
}

// ExtractionConfig holds extraction provider settings.
type ExtractionConfig struct {
	// Provider selects the default provider (anthropic or heuristic).
	Provider string `mapstructure:"provider"`
	// AnthropicAPIKey authenticates the anthropic provider.
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	// Model overrides the provider model.
	Model string `mapstructure:"model"`
	// MinDelay is the minimum gap between provider calls.
	MinDelay time.Duration `mapstructure:"min_delay"`
	// MaxDelay bounds the randomized gap.
	MaxDelay time.Duration `mapstructure:"max_delay"`
	// SessionCap is the hard per-session call limit.
	SessionCap int `mapstructure:"session_cap"`
}

// RedisConfig holds the optional Redis post-cache backend. An empty
// address selects the file-backed cache.
type RedisConfig struct {
	// Addr is the Redis address (host:port).
	Addr string `mapstructure:"addr"`
	// Password authenticates the connection.
	Password string `mapstructure:"password"`
	// DB selects the Redis database.
	DB int `mapstructure:"db"`
}

// Load builds the configuration from viper's current state, applying
// defaults and validating the result.
func Load() (*Config, error) {
	setDefaults()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// setDefaults registers defaults with viper.
func setDefaults() {
	viper.SetDefault("app.environment", "development")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("ingest.data_dir", defaultDataDir)
	viper.SetDefault("ingest.sources_file", defaultSourcesFile)
	viper.SetDefault("ingest.timezone", defaultTimezone)
	viper.SetDefault("ingest.concurrency", defaultConcurrency)
	viper.SetDefault("extraction.provider", "heuristic")
	viper.SetDefault("extraction.min_delay", "2s")
	viper.SetDefault("extraction.max_delay", "6s")
	viper.SetDefault("extraction.session_cap", 40)
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	switch c.App.Environment {
	case "development", "staging", "production":
		// Valid environment
	default:
		return fmt.Errorf("invalid environment: %s", c.App.Environment)
	}

	if c.Ingest.DataDir == "" {
		return errors.New("data dir must be specified")
	}

	if _, err := time.LoadLocation(c.Ingest.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Ingest.Timezone, err)
	}

	if c.Extraction.MinDelay < 0 || c.Extraction.MaxDelay < c.Extraction.MinDelay {
		return errors.New("extraction delays must satisfy 0 <= min <= max")
	}

	return nil
}

// Location returns the configured canonical timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Ingest.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// File path accessors for the produced documents.

// PendingFile returns the pending queue file path.
func (c *Config) PendingFile() string {
	return filepath.Join(c.Ingest.DataDir, "pending_events.json")
}

// PublishedFile returns the published events file path.
func (c *Config) PublishedFile() string {
	return filepath.Join(c.Ingest.DataDir, "events.json")
}

// RejectedFile returns the rejection log path.
func (c *Config) RejectedFile() string {
	return filepath.Join(c.Ingest.DataDir, "rejected_events.json")
}

// LocationsFile returns the location library path.
func (c *Config) LocationsFile() string {
	return filepath.Join(c.Ingest.DataDir, "locations.json")
}

// OrganizersFile returns the organizer library path.
func (c *Config) OrganizersFile() string {
	return filepath.Join(c.Ingest.DataDir, "organizers.json")
}

// PostCacheFile returns the post-cache path for one source.
func (c *Config) PostCacheFile(source string) string {
	return filepath.Join(c.Ingest.DataDir, "postcache", sanitizeFilename(source)+".json")
}

// sanitizeFilename makes a source name safe as a file name.
func sanitizeFilename(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			out = append(out, r)
		default:
			out = append(out, '_')
		}
	}
	return string(out)
}
