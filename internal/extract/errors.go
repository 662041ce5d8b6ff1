// Package extract implements the extraction fallback pipeline: when a
// scraper cannot fill a draft's required fields, all available signals
// are aggregated into one context and sent to a rate-limited extraction
// provider, whose output is validated field by field before merging.
package extract

import "errors"

var (
	// ErrProviderUnavailable indicates the extraction provider cannot be
	// used. The draft is kept with missing fields and flagged.
	ErrProviderUnavailable = errors.New("extraction provider unavailable")
	// ErrSessionExhausted signals that the per-session call cap was
	// reached and the session must be rotated.
	ErrSessionExhausted = errors.New("extraction session exhausted")
	// ErrEmptyContext indicates there were no signals worth sending.
	ErrEmptyContext = errors.New("empty extraction context")
)
