package catalog

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

var ErrEmptyCatalog = errors.New("catalog has no advertisers")

type file struct {
	Advertisers []domain.CatalogEntry `yaml:"advertisers"`
}

// Load reads a catalog from path, or the built-in catalog when path is empty
func Load(path string) ([]domain.CatalogEntry, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog and checks that entries are usable
func Parse(data []byte) ([]domain.CatalogEntry, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(f.Advertisers) == 0 {
		return nil, ErrEmptyCatalog
	}

	seen := make(map[string]struct{}, len(f.Advertisers))
	for i, entry := range f.Advertisers {
		if strings.TrimSpace(entry.ID) == "" || strings.TrimSpace(entry.Name) == "" {
			return nil, fmt.Errorf("catalog entry %d: id and name are required", i)
		}
		if _, dup := seen[entry.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate id %q", i, entry.ID)
		}
		seen[entry.ID] = struct{}{}
	}

	return f.Advertisers, nil
}

// Save writes entries as a YAML catalog
func Save(path string, entries []domain.CatalogEntry) error {
	data, err := yaml.Marshal(file{Advertisers: entries})
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}
	return nil
}

// Corpus returns the texts an embedder should be prepared over
func Corpus(entries []domain.CatalogEntry) []string {
	corpus := make([]string, 0, len(entries))
	for _, entry := range entries {
		corpus = append(corpus, entry.Name+" "+entry.Description)
	}
	return corpus
}

// Vectorize embeds the description of every entry that has no embedding yet,
// or of every entry when overwrite is set. It returns the number of entries embedded.
func Vectorize(ctx context.Context, entries []domain.CatalogEntry, embedder provider.Embedder, overwrite bool) (int, error) {
	embedded := 0
	for i := range entries {
		if len(entries[i].Embedding) > 0 && !overwrite {
			continue
		}

		vec, err := embedder.Embed(ctx, entries[i].Name+" "+entries[i].Description)
		if err != nil {
			return embedded, fmt.Errorf("failed to embed advertiser %s: %w", entries[i].ID, err)
		}
		entries[i].Embedding = vec
		embedded++
	}
	return embedded, nil
}
