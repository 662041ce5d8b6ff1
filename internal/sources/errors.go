package sources

import "errors"

var (
	// ErrNoSources indicates no sources were found in the configuration.
	ErrNoSources = errors.New("no sources found in configuration")
	// ErrMissingRequiredField indicates a required field is missing.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrUnregisteredType indicates no scraper constructor is registered
	// for a source's type tag. The source is skipped, never fatal.
	ErrUnregisteredType = errors.New("unregistered source type")
)
