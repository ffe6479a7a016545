package catalog

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

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

func TestLoad_DefaultCatalog(t *testing.T) {
	entries, err := Load("")

	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "microsoft", entries[0].ID)
	assert.Equal(t, "Microsoft", entries[0].Name)
	assert.NotEmpty(t, entries[0].AdTemplate)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"invalid yaml", "advertisers: [\n"},
		{"empty", "advertisers: []"},
		{"missing id", "advertisers:\n  - name: Google\n"},
		{"duplicate id", "advertisers:\n  - id: g\n    name: Google\n  - id: g\n    name: Gmail\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestSave_RoundTripKeepsEmbeddings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	entries := []domain.CatalogEntry{
		{ID: "google", Name: "Google", Description: "cloud", Embedding: []float64{0.25, 0.5}, AdTemplate: "Try it"},
	}

	require.NoError(t, Save(path, entries))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestVectorize_OnlyMissingUnlessOverwrite(t *testing.T) {
	emb := new(MockEmbedder)
	emb.On("Embed", mock.Anything, "Google cloud").Return([]float64{1, 0}, nil)
	emb.On("Embed", mock.Anything, "Amazon aws").Return([]float64{0, 1}, nil)

	entries := []domain.CatalogEntry{
		{ID: "google", Name: "Google", Description: "cloud"},
		{ID: "amazon", Name: "Amazon", Description: "aws", Embedding: []float64{0.5, 0.5}},
	}

	n, err := Vectorize(context.Background(), entries, emb, false)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []float64{1, 0}, entries[0].Embedding)
	assert.Equal(t, []float64{0.5, 0.5}, entries[1].Embedding)

	n, err = Vectorize(context.Background(), entries, emb, true)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{0, 1}, entries[1].Embedding)
}

func TestVectorize_EmbedderError(t *testing.T) {
	emb := new(MockEmbedder)
	emb.On("Embed", mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))

	entries := []domain.CatalogEntry{{ID: "google", Name: "Google", Description: "cloud"}}

	_, err := Vectorize(context.Background(), entries, emb, false)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "google")
	assert.Empty(t, entries[0].Embedding)
}
