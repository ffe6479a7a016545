package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/keyword"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/openai"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/template"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/tfidf"
)

func TestClassifier(t *testing.T) {
	c, err := Classifier(config.Provider{Classifier: config.ProviderKeyword}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &keyword.Classifier{}, c)

	c, err = Classifier(config.Provider{Classifier: config.ProviderOpenAI, APIKey: "sk-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &openai.Client{}, c)

	_, err = Classifier(config.Provider{Classifier: config.ProviderOpenAI}, zap.NewNop())
	assert.ErrorIs(t, err, openai.ErrMissingAPIKey)

	_, err = Classifier(config.Provider{Classifier: "bert"}, zap.NewNop())
	assert.Error(t, err)
}

func TestExtractor(t *testing.T) {
	e, err := Extractor(config.Provider{Extractor: config.ProviderKeyword}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &keyword.Extractor{}, e)
}

func TestEmbedder_TFIDFPreparedOverCorpus(t *testing.T) {
	e, err := Embedder(config.Provider{Embedder: config.ProviderTFIDF}, []string{"cloud computing platform"}, zap.NewNop())
	require.NoError(t, err)
	require.IsType(t, &tfidf.Embedder{}, e)
	assert.Positive(t, e.(*tfidf.Embedder).Dimension())

	_, err = Embedder(config.Provider{Embedder: config.ProviderTFIDF}, nil, zap.NewNop())
	assert.ErrorIs(t, err, tfidf.ErrEmptyCorpus)
}

func TestAdWriter(t *testing.T) {
	w, err := AdWriter(config.Provider{AdWriter: "template"}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &template.Writer{}, w)

	_, err = AdWriter(config.Provider{AdWriter: "markov"}, zap.NewNop())
	assert.Error(t, err)
}

func TestRevectorizeAll(t *testing.T) {
	assert.True(t, RevectorizeAll(config.Provider{Embedder: config.ProviderTFIDF}, config.Catalog{}))
	assert.False(t, RevectorizeAll(config.Provider{Embedder: config.ProviderOpenAI}, config.Catalog{}))
	assert.True(t, RevectorizeAll(config.Provider{Embedder: config.ProviderOpenAI}, config.Catalog{Revectorize: true}))
}
