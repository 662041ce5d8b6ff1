package scraper

import (
	"context"
	"errors"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/extract"
	"github.com/jonesrussell/eventcrawl/internal/sources"
)

// enrichIfIncomplete routes a draft with missing required fields through
// the extraction fallback. Provider failures never discard the draft:
// it stays flagged for attention and the failure becomes a diagnostic.
func enrichIfIncomplete(
	ctx context.Context,
	deps Deps,
	cfg sources.Config,
	draft *domain.DraftEvent,
	sig extract.Signals,
) []domain.Diagnostic {
	if deps.Enricher == nil || draft.IsComplete() {
		return nil
	}

	// Drafts the capability filter drops anyway never earn a provider
	// call; the session cap is reserved for drafts that can survive.
	// Drafts without any text yet are judged after extraction instead.
	if draft.Title != "" || draft.Description != "" {
		if verdict := sources.NewFilter(&cfg).Evaluate(draft.Title, draft.Description); !verdict.Keep {
			return nil
		}
	}

	if len(sig.Hints) == 0 {
		sig.Hints = cfg.Options.IncludeKeywords
	}

	err := deps.Enricher.Enrich(ctx, draft, sig)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, extract.ErrProviderUnavailable), errors.Is(err, extract.ErrSessionExhausted):
		return []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticProviderUnavailable, cfg.Name, err.Error(),
		)}
	case errors.Is(err, extract.ErrEmptyContext):
		return nil
	default:
		return []domain.Diagnostic{domain.NewDiagnostic(
			domain.DiagnosticValidationFailed, cfg.Name, err.Error(),
		)}
	}
}
