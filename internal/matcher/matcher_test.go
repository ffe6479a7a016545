package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    []float64
		b    []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"length mismatch", []float64{1, 2}, []float64{1, 2, 3}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestCosineSimilarity_Symmetric(t *testing.T) {
	a := []float64{0.3, -1.2, 4.5, 0}
	b := []float64{2.2, 0.1, -0.7, 9}

	assert.Equal(t, CosineSimilarity(a, b), CosineSimilarity(b, a))
}

func TestCosineSimilarity_SelfIsOne(t *testing.T) {
	v := []float64{0.2, 0.4, 0.1, 0.9}

	assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-9)
}

func TestFindBestMatch_EmptyCatalog(t *testing.T) {
	_, ok := FindBestMatch([]float64{1, 0}, nil)

	assert.False(t, ok)
}

func TestFindBestMatch_TieBreakFirstMaximum(t *testing.T) {
	query := []float64{1, 0}
	catalog := []domain.CatalogEntry{
		{ID: "a", Embedding: []float64{1, 1}},
		{ID: "b", Embedding: []float64{1, 0}},
		{ID: "c", Embedding: []float64{2, 0}},
	}

	match, ok := FindBestMatch(query, catalog)

	require.True(t, ok)
	assert.Equal(t, "b", match.Entry.ID)
	assert.InDelta(t, 1.0, match.Score, 1e-9)
}

func TestFindBestMatch_ZeroScoresStillReturnFirstEntry(t *testing.T) {
	catalog := []domain.CatalogEntry{
		{ID: "a", Embedding: []float64{0, 0}},
		{ID: "b", Embedding: []float64{1, 2, 3}},
	}

	match, ok := FindBestMatch([]float64{1, 0}, catalog)

	require.True(t, ok)
	assert.Equal(t, "a", match.Entry.ID)
	assert.Zero(t, match.Score)
}

func TestFindBestMatch_PicksHighestScore(t *testing.T) {
	query := []float64{0.1, 0.9}
	catalog := []domain.CatalogEntry{
		{ID: "microsoft", Embedding: []float64{1, 0}},
		{ID: "google", Embedding: []float64{0, 1}},
		{ID: "amazon", Embedding: []float64{0.5, 0.5}},
	}

	match, ok := FindBestMatch(query, catalog)

	require.True(t, ok)
	assert.Equal(t, "google", match.Entry.ID)
}
