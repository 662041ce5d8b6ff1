package extract

import "context"

// OCR produces optical-text output for an image. The pipeline treats OCR
// as just another signal source; a deployment without an OCR engine uses
// NoOpOCR and relies on post text alone.
type OCR interface {
	// Available reports whether an OCR engine is configured.
	Available() bool
	// ImageText returns the recognized text for the image at url.
	ImageText(ctx context.Context, url string) (string, error)
}

// NoOpOCR is the OCR used when no engine is configured.
type NoOpOCR struct{}

// Available always reports false.
func (NoOpOCR) Available() bool { return false }

// ImageText returns empty text.
func (NoOpOCR) ImageText(ctx context.Context, url string) (string, error) {
	return "", nil
}
