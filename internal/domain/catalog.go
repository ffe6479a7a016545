package domain

// CatalogEntry is a static advertiser entry used for similarity matching
type CatalogEntry struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Embedding   []float64 `yaml:"embedding,omitempty,flow" json:"-"`
	AdTemplate  string    `yaml:"ad_template" json:"-"`
}
