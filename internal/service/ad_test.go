package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

func testCatalog() []domain.CatalogEntry {
	return []domain.CatalogEntry{
		{ID: "microsoft", Name: "Microsoft", Description: "AI and cloud", Embedding: []float64{1, 0}, AdTemplate: "무료 체험 신청"},
		{ID: "google", Name: "Google", Description: "Search and cloud", Embedding: []float64{0, 1}, AdTemplate: "크레딧 제공"},
	}
}

func TestAdService_ComposeAd_Success(t *testing.T) {
	emb := new(MockEmbedder)
	svc := NewAdService(emb, testCatalog(), nil, time.Second, zap.NewNop())

	query := "  구글 검색 광고 가격  "
	emb.On("Embed", mock.Anything, query).Return([]float64{0.1, 0.9}, nil)

	resp, err := svc.ComposeAd(context.Background(), query)

	require.NoError(t, err)
	assert.Equal(t, "google", resp.Advertiser.ID)
	assert.Equal(t, "Google", resp.Advertiser.Name)
	assert.Equal(t, "Search and cloud", resp.Advertiser.Description)
	assert.Equal(t, "Google의 솔루션이 궁금하시군요! 크레딧 제공", resp.AdContent)
	assert.InDelta(t, 0.9939, resp.SimilarityScore, 1e-3)
	assert.Equal(t, query, resp.UserQuery)
}

func TestAdService_ComposeAd_EmptyQuery(t *testing.T) {
	emb := new(MockEmbedder)
	svc := NewAdService(emb, testCatalog(), nil, time.Second, zap.NewNop())

	_, err := svc.ComposeAd(context.Background(), " \n\t")

	assert.ErrorIs(t, err, ErrEmptyQuery)
	emb.AssertNotCalled(t, "Embed", mock.Anything, mock.Anything)
}

func TestAdService_ComposeAd_EmbeddingUnavailable(t *testing.T) {
	emb := new(MockEmbedder)
	svc := NewAdService(emb, testCatalog(), nil, time.Second, zap.NewNop())

	emb.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	_, err := svc.ComposeAd(context.Background(), "question")

	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestAdService_ComposeAd_NoMatchOnEmptyCatalog(t *testing.T) {
	emb := new(MockEmbedder)
	svc := NewAdService(emb, nil, nil, time.Second, zap.NewNop())

	emb.On("Embed", mock.Anything, mock.Anything).Return([]float64{1, 0}, nil)

	_, err := svc.ComposeAd(context.Background(), "question")

	assert.ErrorIs(t, err, ErrNoMatch)
}

func TestAdService_ComposeAd_WriterFailureFallsBackToTemplate(t *testing.T) {
	emb := new(MockEmbedder)
	writer := new(MockAdWriter)
	svc := NewAdService(emb, testCatalog(), writer, time.Second, zap.NewNop())

	emb.On("Embed", mock.Anything, mock.Anything).Return([]float64{1, 0}, nil)
	writer.On("WriteAd", mock.Anything, mock.Anything, "AI 가격").Return("", errors.New("model overloaded"))

	resp, err := svc.ComposeAd(context.Background(), "AI 가격")

	require.NoError(t, err)
	assert.Equal(t, "Microsoft의 솔루션이 궁금하시군요! 무료 체험 신청", resp.AdContent)
}

func TestAdService_ComposeAd_UsesWriter(t *testing.T) {
	emb := new(MockEmbedder)
	writer := new(MockAdWriter)
	svc := NewAdService(emb, testCatalog(), writer, time.Second, zap.NewNop())

	emb.On("Embed", mock.Anything, mock.Anything).Return([]float64{1, 0}, nil)
	writer.On("WriteAd", mock.Anything, testCatalog()[0], "AI 가격").Return("Copilot으로 업무를 자동화하세요", nil)

	resp, err := svc.ComposeAd(context.Background(), "AI 가격")

	require.NoError(t, err)
	assert.Equal(t, "Copilot으로 업무를 자동화하세요", resp.AdContent)
}
