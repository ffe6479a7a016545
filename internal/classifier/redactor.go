package classifier

import "context"

// Redactor removes personal data from a question before it leaves the service
type Redactor interface {
	Redact(ctx context.Context, text string) (string, error)
}

// PassthroughRedactor returns text unchanged
type PassthroughRedactor struct{}

// Redact returns text unchanged
func (PassthroughRedactor) Redact(_ context.Context, text string) (string, error) {
	return text, nil
}
