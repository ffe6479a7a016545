package provider

import (
	"context"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// Embedder converts free text into a numeric vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Classifier labels text with one of the closed intent labels. The returned label is
// not trusted; callers map it through domain.ParseIntent.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// AdvertiserExtractor finds a known advertiser mentioned in text.
// It returns ok=false when no known advertiser is mentioned and never invents a name.
type AdvertiserExtractor interface {
	ExtractAdvertiser(ctx context.Context, text string) (name string, ok bool, err error)
}

// AdWriter writes ad copy for a matched advertiser and the user's query
type AdWriter interface {
	WriteAd(ctx context.Context, entry domain.CatalogEntry, query string) (string, error)
}
