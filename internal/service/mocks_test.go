package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

// MockPublisher is a mock implementation of stream.Publisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Append(ctx context.Context, partitionKey string, data []byte) error {
	args := m.Called(ctx, partitionKey, data)
	return args.Error(0)
}

// MockEmbedder is a mock implementation of provider.Embedder
type MockEmbedder struct {
	mock.Mock
}

func (m *MockEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]float64), args.Error(1)
}

// MockAdWriter is a mock implementation of provider.AdWriter
type MockAdWriter struct {
	mock.Mock
}

func (m *MockAdWriter) WriteAd(ctx context.Context, entry domain.CatalogEntry, query string) (string, error) {
	args := m.Called(ctx, entry, query)
	return args.String(0), args.Error(1)
}

// MockLeadRepository is a mock implementation of repository.LeadRepository
type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) InsertLeads(ctx context.Context, leads []*domain.LeadRecord) (int, error) {
	args := m.Called(ctx, leads)
	return args.Int(0), args.Error(1)
}

func (m *MockLeadRepository) InitSchema(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadRepository) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockLeadRepository) Close() error {
	return m.Called().Error(0)
}

func (m *MockLeadRepository) GetLeadStats(ctx context.Context, query repository.LeadStatsQuery) (*repository.LeadStats, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LeadStats), args.Error(1)
}
