// Package pipeline orchestrates one ingestion run: scraping all enabled
// sources through a bounded worker pool, normalizing and deduplicating
// the drafts, resolving entity references and handing survivors to the
// editorial queue.
package pipeline

import (
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// Normalizer canonicalizes drafts into one timezone-aware form and
// computes their identity hash.
type Normalizer struct {
	timezone *time.Location
	now      func() time.Time
}

// NewNormalizer creates a normalizer for the pipeline timezone. A nil
// location defaults to UTC.
func NewNormalizer(tz *time.Location) *Normalizer {
	if tz == nil {
		tz = time.UTC
	}
	return &Normalizer{
		timezone: tz,
		now:      time.Now,
	}
}

// Verdict reports what the normalizer decided for one draft.
type Verdict struct {
	Keep   bool
	Reason string
}

// Normalize canonicalizes timestamps and category, re-applies the
// capability filter and stamps the identity hash. Drafts beyond the
// source's max-days-ahead horizon are dropped.
func (n *Normalizer) Normalize(draft *domain.DraftEvent, cfg sources.Config, filter *sources.Filter) Verdict {
	if draft.HasStartTime() {
		draft.StartTime = draft.StartTime.In(n.timezone)
	}
	if draft.EndTime != nil {
		end := draft.EndTime.In(n.timezone)
		draft.EndTime = &end
	}

	draft.Category = domain.NormalizeCategory(draft.Category)

	if verdict := filter.Evaluate(draft.Title, draft.Description); !verdict.Keep {
		return Verdict{Keep: false, Reason: verdict.Reason}
	}

	if maxDays := cfg.Options.MaxDaysAhead; maxDays > 0 && draft.HasStartTime() {
		horizon := n.now().In(n.timezone).AddDate(0, 0, maxDays)
		if draft.StartTime.After(horizon) {
			return Verdict{Keep: false, Reason: "beyond max days ahead"}
		}
	}

	draft.ContentHash = domain.IdentityHash(draft.Title, draft.StartTime, draft.Source)
	return Verdict{Keep: true}
}
