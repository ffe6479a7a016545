package matcher

import (
	"math"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// Match is the catalog entry closest to a query vector
type Match struct {
	Entry domain.CatalogEntry
	Score float64
}

// CosineSimilarity returns dot(a,b) / (|a|*|b|).
// Vectors of different length, empty vectors and zero magnitude vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// FindBestMatch scans the catalog in order and returns the entry with the highest
// similarity to query. The first entry reaching the maximum wins ties.
// ok is false only for an empty catalog.
func FindBestMatch(query []float64, catalog []domain.CatalogEntry) (Match, bool) {
	if len(catalog) == 0 {
		return Match{}, false
	}

	best := Match{Entry: catalog[0], Score: CosineSimilarity(query, catalog[0].Embedding)}
	for _, entry := range catalog[1:] {
		score := CosineSimilarity(query, entry.Embedding)
		if score > best.Score {
			best = Match{Entry: entry, Score: score}
		}
	}

	return best, true
}
