package extract

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonesrussell/eventcrawl/internal/domain"
	"github.com/jonesrussell/eventcrawl/internal/logger"
)

// Hooks surface pacing events to observability without coupling the
// enricher to a metrics implementation. All fields are optional.
type Hooks struct {
	// ProviderCall fires after a rate-limiter slot was acquired.
	ProviderCall func()
	// SessionExhausted fires when the session cap blocks a call.
	SessionExhausted func()
}

// Enricher runs the extraction fallback for drafts missing required
// fields. It owns the provider handle and the shared rate limiter; all
// pacing state is explicit here, never ambient.
type Enricher struct {
	provider Provider
	limiter  *RateLimiter
	timezone *time.Location
	logger   logger.Interface
	hooks    Hooks
}

// NewEnricher creates the fallback pipeline around one provider.
func NewEnricher(provider Provider, limiter *RateLimiter, tz *time.Location, log logger.Interface) *Enricher {
	if tz == nil {
		tz = time.UTC
	}
	return &Enricher{
		provider: provider,
		limiter:  limiter,
		timezone: tz,
		logger:   log,
	}
}

// SetHooks installs observability hooks.
func (e *Enricher) SetHooks(hooks Hooks) {
	e.hooks = hooks
}

// Enrich attempts to fill the draft's missing fields from the given
// signals. When the provider is unavailable or the session is exhausted
// the draft is kept as-is and flagged for attention; the error is
// ErrProviderUnavailable or ErrSessionExhausted respectively.
func (e *Enricher) Enrich(ctx context.Context, draft *domain.DraftEvent, sig Signals) error {
	if draft.IsComplete() {
		return nil
	}

	text, err := BuildContext(sig)
	if err != nil {
		draft.NeedsAttention = true
		return err
	}

	if e.provider == nil || !e.provider.Available() {
		draft.NeedsAttention = true
		return ErrProviderUnavailable
	}

	if err := e.limiter.Acquire(ctx); err != nil {
		draft.NeedsAttention = true
		if errors.Is(err, ErrSessionExhausted) {
			e.logger.Warn("extraction session exhausted, rotation required",
				"provider", e.provider.Name(),
				"calls", e.limiter.Calls(),
			)
			if e.hooks.SessionExhausted != nil {
				e.hooks.SessionExhausted()
			}
			return err
		}
		return fmt.Errorf("acquire extraction slot: %w", err)
	}
	if e.hooks.ProviderCall != nil {
		e.hooks.ProviderCall()
	}

	extraction, err := e.provider.ExtractEventInfo(ctx, text)
	if err != nil {
		draft.NeedsAttention = true
		return fmt.Errorf("extract event info: %w", err)
	}

	result := ValidateAndMerge(draft, extraction, e.timezone)
	if len(result.DroppedFields) > 0 {
		e.logger.Debug("dropped invalid provider fields",
			"provider", e.provider.Name(),
			"fields", result.DroppedFields,
			"event", draft.Title,
		)
	}

	if !draft.IsComplete() {
		draft.NeedsAttention = true
	}

	return nil
}
