package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/dto"
	"github.com/BarkinBalci/ad-scouter-service/internal/matcher"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/template"
)

// AdService matches live queries against the advertiser catalog
type AdService struct {
	embedder provider.Embedder
	catalog  []domain.CatalogEntry
	writer   provider.AdWriter
	fallback provider.AdWriter
	timeout  time.Duration
	log      *zap.Logger
}

// NewAdService creates a new ad service. A nil writer uses the template writer, which is
// also the fallback when writer fails.
func NewAdService(embedder provider.Embedder, catalog []domain.CatalogEntry, writer provider.AdWriter, timeout time.Duration, log *zap.Logger) *AdService {
	fallback := template.NewWriter("")
	if writer == nil {
		writer = fallback
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &AdService{
		embedder: embedder,
		catalog:  catalog,
		writer:   writer,
		fallback: fallback,
		timeout:  timeout,
		log:      log,
	}
}

// ComposeAd embeds query, finds the closest advertiser and writes the ad
func (s *AdService) ComposeAd(ctx context.Context, query string) (*dto.AdResponse, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	vector, err := s.embed(ctx, query)
	if err != nil {
		metrics.AdsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingUnavailable, err)
	}

	match, ok := matcher.FindBestMatch(vector, s.catalog)
	if !ok {
		metrics.AdsTotal.WithLabelValues(metrics.OutcomeNoMatch).Inc()
		return nil, ErrNoMatch
	}

	content := s.write(ctx, match.Entry, query)

	s.log.Info("Ad composed",
		zap.String("advertiser_id", match.Entry.ID),
		zap.Float64("similarity_score", match.Score))
	metrics.AdsTotal.WithLabelValues(metrics.OutcomeServed).Inc()

	return &dto.AdResponse{
		Advertiser: dto.AdvertiserData{
			ID:          match.Entry.ID,
			Name:        match.Entry.Name,
			Description: match.Entry.Description,
		},
		AdContent:       content,
		SimilarityScore: match.Score,
		UserQuery:       query,
	}, nil
}

func (s *AdService) embed(ctx context.Context, query string) ([]float64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	}()

	return s.embedder.Embed(ctx, query)
}

func (s *AdService) write(ctx context.Context, entry domain.CatalogEntry, query string) string {
	wctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	content, err := s.writer.WriteAd(wctx, entry, query)
	if err == nil && strings.TrimSpace(content) != "" {
		return content
	}

	s.log.Warn("Ad writer failed, using template", zap.String("advertiser_id", entry.ID), zap.Error(err))
	content, _ = s.fallback.WriteAd(ctx, entry, query)
	return content
}
