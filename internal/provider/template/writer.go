package template

import (
	"context"
	"strings"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// DefaultFormat wraps the advertiser's template with a short personalized lead-in
const DefaultFormat = "{advertiser}의 솔루션이 궁금하시군요! {template}"

// Writer composes ad copy by placeholder substitution.
// Supported placeholders: {advertiser}, {description}, {query} and, in the format only, {template}.
type Writer struct {
	format string
}

// NewWriter creates a template writer; an empty format uses DefaultFormat
func NewWriter(format string) *Writer {
	if format == "" {
		format = DefaultFormat
	}
	return &Writer{format: format}
}

// WriteAd substitutes the entry and query into the format
func (w *Writer) WriteAd(_ context.Context, entry domain.CatalogEntry, query string) (string, error) {
	fields := strings.NewReplacer(
		"{advertiser}", entry.Name,
		"{description}", entry.Description,
		"{query}", query,
	)
	body := fields.Replace(entry.AdTemplate)

	return strings.TrimSpace(strings.NewReplacer(
		"{advertiser}", entry.Name,
		"{description}", entry.Description,
		"{query}", query,
		"{template}", body,
	).Replace(w.format)), nil
}
