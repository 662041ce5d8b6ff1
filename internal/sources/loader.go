package sources

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonesrussell/eventcrawl/internal/logger"
)

// defaultRateLimit is the minimum inter-request delay applied when a
// source does not override it.
const defaultRateLimit = time.Second

// defaultTimeout is the per-source request timeout applied when a source
// does not override it.
const defaultTimeout = 30 * time.Second

// sourcesFile represents the structure of a sources YAML file.
type sourcesFile struct {
	Sources []map[string]any `yaml:"sources"`
}

// Loader handles loading and validating source configurations.
type Loader struct {
	configPath string
	logger     logger.Interface
}

// NewLoader creates a new Loader instance.
func NewLoader(configPath string, log logger.Interface) *Loader {
	return &Loader{
		configPath: configPath,
		logger:     log,
	}
}

// LoadSources loads and validates all sources from the configuration.
// Invalid entries are skipped; order is preserved.
func (l *Loader) LoadSources() ([]Config, error) {
	raw, err := l.loadRawSources()
	if err != nil {
		return nil, fmt.Errorf("failed to load raw sources: %w", err)
	}

	configs, err := l.validateAndConvertSources(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to validate sources: %w", err)
	}

	return configs, nil
}

// loadRawSources loads the raw source data from the configuration file.
func (l *Loader) loadRawSources() ([]map[string]any, error) {
	data, err := os.ReadFile(l.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// If config file doesn't exist, return empty sources
			return []map[string]any{}, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(file.Sources) == 0 {
		return nil, ErrNoSources
	}

	return file.Sources, nil
}

// validateAndConvertSources validates and converts the sources to Config structs.
func (l *Loader) validateAndConvertSources(raw []map[string]any) ([]Config, error) {
	if len(raw) == 0 {
		return nil, ErrNoSources
	}

	configs := make([]Config, 0, len(raw))
	for _, src := range raw {
		cfg, convertErr := l.convertToConfig(src)
		if convertErr != nil {
			l.logger.Warn("skipping undecodable source entry",
				"name", entryName(src),
				"error", convertErr,
			)
			continue
		}
		if validateErr := l.validateConfig(&cfg); validateErr != nil {
			l.logger.Warn("skipping invalid source entry",
				"name", entryName(src),
				"error", validateErr,
			)
			continue
		}
		configs = append(configs, cfg)
	}

	if len(configs) == 0 {
		return nil, ErrNoSources
	}

	return configs, nil
}

// entryName best-effort extracts the name of a raw source entry for log
// lines about entries that failed to decode.
func entryName(src map[string]any) string {
	if name, ok := src["name"].(string); ok && name != "" {
		return name
	}
	return "(unnamed)"
}

// convertToConfig converts a raw source map to a Config struct.
func (l *Loader) convertToConfig(src map[string]any) (Config, error) {
	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return Config{}, fmt.Errorf("failed to create decoder: %w", err)
	}

	if decodeErr := decoder.Decode(src); decodeErr != nil {
		return Config{}, fmt.Errorf("failed to decode source: %w", decodeErr)
	}

	return cfg, nil
}

// validateConfig validates a source configuration and applies defaults.
func (l *Loader) validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config cannot be nil")
	}

	if cfg.Name == "" {
		return fmt.Errorf("%w: name", ErrMissingRequiredField)
	}

	if cfg.Type == "" {
		return fmt.Errorf("%w: type", ErrMissingRequiredField)
	}

	if cfg.URL == "" {
		return fmt.Errorf("%w: url", ErrMissingRequiredField)
	}

	if err := l.validateURL(cfg.URL); err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	l.applyDefaults(cfg)

	return nil
}

// validateURL validates the URL format.
func (l *Loader) validateURL(urlStr string) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return err
	}
	if u.Scheme == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return errors.New("must be a valid HTTP(S) URL")
	}
	return nil
}

// applyDefaults fills in rate limit and timeout defaults.
func (l *Loader) applyDefaults(cfg *Config) {
	if cfg.Options.RateLimit <= 0 {
		cfg.Options.RateLimit = defaultRateLimit
	}
	if cfg.Options.Timeout <= 0 {
		cfg.Options.Timeout = defaultTimeout
	}
}
