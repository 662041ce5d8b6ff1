package domain

import "time"

// DiagnosticKind classifies a per-source or per-draft failure.
type DiagnosticKind string

const (
	// DiagnosticSourceUnavailable means a source could not be reached
	// after bounded retries.
	DiagnosticSourceUnavailable DiagnosticKind = "source_unavailable"
	// DiagnosticUnregisteredType means no scraper is registered for a
	// source's type tag.
	DiagnosticUnregisteredType DiagnosticKind = "unregistered_source_type"
	// DiagnosticProviderUnavailable means the extraction provider could
	// not be used; the draft is kept with missing fields.
	DiagnosticProviderUnavailable DiagnosticKind = "provider_unavailable"
	// DiagnosticValidationFailed means a scraped or extracted field was
	// rejected by validation.
	DiagnosticValidationFailed DiagnosticKind = "validation_failed"
	// DiagnosticParseError means raw source content could not be parsed.
	DiagnosticParseError DiagnosticKind = "parse_error"
)

// Diagnostic describes a non-fatal failure observed while scraping one
// source. Diagnostics are reported with the batch result; they never
// abort a run.
type Diagnostic struct {
	Kind       DiagnosticKind `json:"kind"`
	Source     string         `json:"source"`
	Message    string         `json:"message"`
	OccurredAt time.Time      `json:"occurred_at"`
}

// NewDiagnostic builds a diagnostic stamped with the current time.
func NewDiagnostic(kind DiagnosticKind, source, message string) Diagnostic {
	return Diagnostic{
		Kind:       kind,
		Source:     source,
		Message:    message,
		OccurredAt: time.Now().UTC(),
	}
}

// RunCounts summarizes one ingestion run. These counters are the only
// user-visible failure surface.
type RunCounts struct {
	Scraped    int `json:"scraped"`
	Added      int `json:"added"`
	Duplicates int `json:"duplicates"`
	Rejected   int `json:"rejected"`
	Errors     int `json:"errors"`
}
