package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/scraper"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

func apiConfig(url string) sources.Config {
	return sources.Config{
		Name:    "city-api",
		Type:    sources.TypeAPI,
		URL:     url,
		Enabled: true,
	}
}

func serveJSON(t *testing.T, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAPIScraper_Envelope(t *testing.T) {
	t.Parallel()

	srv := serveJSON(t, `{
		"events": [
			{
				"title": "Open Air Kino",
				"start_time": "2026-07-10T21:30:00Z",
				"location_id": "loc_stadtpark",
				"location_override": {"name": "Stadtpark (Wiese)"},
				"category": "community",
				"price": "5 €"
			}
		]
	}`)

	s := scraper.NewAPIScraper(testDeps())
	drafts, diags := s.Scrape(context.Background(), apiConfig(srv.URL))

	assert.Empty(t, diags)
	require.Len(t, drafts, 1)

	draft := drafts[0]
	assert.Equal(t, "Open Air Kino", draft.Title)
	assert.True(t, draft.HasStartTime())
	assert.Equal(t, "loc_stadtpark", draft.LocationID)
	assert.Equal(t, "Stadtpark (Wiese)", draft.LocationOverride["name"])
	assert.False(t, draft.NeedsAttention)
}

func TestAPIScraper_BareArray(t *testing.T) {
	t.Parallel()

	srv := serveJSON(t, `[
		{"title": "Flohmarkt", "start_time": "2026-06-01"},
		{"title": "", "start_time": "2026-06-02"}
	]`)

	s := scraper.NewAPIScraper(testDeps())
	drafts, diags := s.Scrape(context.Background(), apiConfig(srv.URL))

	assert.Empty(t, diags)
	require.Len(t, drafts, 1)
	assert.Equal(t, "Flohmarkt", drafts[0].Title)
}

func TestAPIScraper_MissingStartTimeFlagged(t *testing.T) {
	t.Parallel()

	srv := serveJSON(t, `{"events": [{"title": "Mystery Event"}]}`)

	s := scraper.NewAPIScraper(testDeps())
	drafts, diags := s.Scrape(context.Background(), apiConfig(srv.URL))

	// The record is kept and flagged; structured sources are not sent
	// through the extraction fallback.
	require.Len(t, drafts, 1)
	assert.True(t, drafts[0].NeedsAttention)

	require.Len(t, diags, 1)
	assert.Equal(t, domain.DiagnosticValidationFailed, diags[0].Kind)
}

func TestAPIScraper_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := serveJSON(t, `{"events": "not an array"`)

	s := scraper.NewAPIScraper(testDeps())
	drafts, diags := s.Scrape(context.Background(), apiConfig(srv.URL))

	assert.Empty(t, drafts)
	require.Len(t, diags, 1)
	assert.Equal(t, domain.DiagnosticParseError, diags[0].Kind)
}
