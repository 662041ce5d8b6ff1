package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/eventcrawl/internal/domain"
)

func TestIdentityHash(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	hash := domain.IdentityHash("Jazz Night", start, "city-feed")
	assert.NotEmpty(t, hash)

	// Same inputs produce the same hash.
	assert.Equal(t, hash, domain.IdentityHash("Jazz Night", start, "city-feed"))

	// Case and whitespace do not change identity.
	assert.Equal(t, hash, domain.IdentityHash("  jazz   NIGHT ", start, "City-Feed"))

	// Any differing component changes the hash.
	assert.NotEqual(t, hash, domain.IdentityHash("Jazz Night", start, "other-source"))
	assert.NotEqual(t, hash, domain.IdentityHash("Blues Night", start, "city-feed"))
	assert.NotEqual(t, hash,
		domain.IdentityHash("Jazz Night", start.Add(time.Hour), "city-feed"))
}

func TestIdentityHash_TimezoneIndependent(t *testing.T) {
	t.Parallel()

	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Fatal(err)
	}

	utc := time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)
	local := utc.In(berlin)

	// The same instant hashes the same regardless of the zone it is
	// expressed in.
	assert.Equal(t,
		domain.IdentityHash("Jazz Night", utc, "city-feed"),
		domain.IdentityHash("Jazz Night", local, "city-feed"),
	)
}

func TestIdentityHash_MissingStartTime(t *testing.T) {
	t.Parallel()

	hash := domain.IdentityHash("Jazz Night", time.Time{}, "city-feed")
	assert.NotEmpty(t, hash)

	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)
	assert.NotEqual(t, hash, domain.IdentityHash("Jazz Night", start, "city-feed"))
}

func TestDraftID(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)

	id := domain.DraftID("city-feed", "Jazz Night", start)
	assert.True(t, len(id) > 4)
	assert.Equal(t, "evt_", id[:4])

	// Deterministic over the same inputs.
	assert.Equal(t, id, domain.DraftID("city-feed", "Jazz Night", start))

	// The time of day does not matter, only the date.
	assert.Equal(t, id, domain.DraftID("city-feed", "Jazz Night", start.Add(2*time.Hour)))
	assert.NotEqual(t, id, domain.DraftID("city-feed", "Jazz Night", start.AddDate(0, 0, 1)))
}

func TestRejectionKey(t *testing.T) {
	t.Parallel()

	key := domain.RejectionKey("Weekly Flea Market", "community-page")

	tests := []struct {
		name   string
		title  string
		source string
		same   bool
	}{
		{"identical", "Weekly Flea Market", "community-page", true},
		{"case insensitive", "WEEKLY FLEA MARKET", "Community-Page", true},
		{"whitespace insensitive", "  Weekly  Flea\tMarket ", "community-page", true},
		{"different title", "Weekly Night Market", "community-page", false},
		{"different source", "Weekly Flea Market", "city-feed", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := domain.RejectionKey(tt.title, tt.source)
			if tt.same {
				assert.Equal(t, key, got)
			} else {
				assert.NotEqual(t, key, got)
			}
		})
	}
}
