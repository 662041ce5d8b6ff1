package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/config"
)

// Config tests share viper's global state, so they run sequentially and
// reset it between cases.

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "data", cfg.Ingest.DataDir)
	assert.Equal(t, "sources.yaml", cfg.Ingest.SourcesFile)
	assert.Equal(t, "Europe/Berlin", cfg.Ingest.Timezone)
	assert.Equal(t, 4, cfg.Ingest.Concurrency)
	assert.Equal(t, "heuristic", cfg.Extraction.Provider)
	assert.Equal(t, 2*time.Second, cfg.Extraction.MinDelay)
	assert.Equal(t, 6*time.Second, cfg.Extraction.MaxDelay)
	assert.Equal(t, 40, cfg.Extraction.SessionCap)
}

func TestLoad_InvalidEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("app.environment", "underwater")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("ingest.timezone", "Mars/Olympus_Mons")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_InvalidDelays(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("extraction.min_delay", "10s")
	viper.Set("extraction.max_delay", "1s")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestFilePaths(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("ingest.data_dir", "/var/lib/eventcrawl")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/eventcrawl/pending_events.json", cfg.PendingFile())
	assert.Equal(t, "/var/lib/eventcrawl/events.json", cfg.PublishedFile())
	assert.Equal(t, "/var/lib/eventcrawl/rejected_events.json", cfg.RejectedFile())
	assert.Equal(t, "/var/lib/eventcrawl/locations.json", cfg.LocationsFile())
	assert.Equal(t, "/var/lib/eventcrawl/organizers.json", cfg.OrganizersFile())

	// Source names are sanitized before becoming file names.
	assert.Equal(t,
		"/var/lib/eventcrawl/postcache/insta_stadtpark.json",
		cfg.PostCacheFile("insta/stadtpark"),
	)
}

func TestLocation(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", cfg.Location().String())
}
