// Package factory builds providers from the PROVIDER_* configuration.
package factory

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/keyword"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/openai"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/template"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/tfidf"
)

const providerTemplate = "template"

func openAIClient(cfg config.Provider, log *zap.Logger) (*openai.Client, error) {
	return openai.New(openai.Config{
		BaseURL:        cfg.BaseURL,
		APIKey:         cfg.APIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Timeout:        time.Duration(cfg.TimeoutSec) * time.Second,
		Advertisers:    provider.DefaultKnownAdvertisers,
	}, log)
}

// Classifier returns the intent classifier named by PROVIDER_CLASSIFIER
func Classifier(cfg config.Provider, log *zap.Logger) (provider.Classifier, error) {
	switch cfg.Classifier {
	case config.ProviderKeyword, "":
		return keyword.NewClassifier(), nil
	case config.ProviderOpenAI:
		return openAIClient(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported classifier provider: %s", cfg.Classifier)
	}
}

// Extractor returns the advertiser extractor named by PROVIDER_EXTRACTOR
func Extractor(cfg config.Provider, log *zap.Logger) (provider.AdvertiserExtractor, error) {
	switch cfg.Extractor {
	case config.ProviderKeyword, "":
		return keyword.NewExtractor(provider.DefaultKnownAdvertisers), nil
	case config.ProviderOpenAI:
		return openAIClient(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported extractor provider: %s", cfg.Extractor)
	}
}

// Embedder returns the embedder named by PROVIDER_EMBEDDER. A tfidf embedder is prepared
// over corpus, which makes previously stored catalog vectors stale.
func Embedder(cfg config.Provider, corpus []string, log *zap.Logger) (provider.Embedder, error) {
	switch cfg.Embedder {
	case config.ProviderTFIDF, "":
		return tfidf.NewPreparedEmbedder(corpus)
	case config.ProviderOpenAI:
		return openAIClient(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", cfg.Embedder)
	}
}

// AdWriter returns the ad writer named by PROVIDER_AD_WRITER
func AdWriter(cfg config.Provider, log *zap.Logger) (provider.AdWriter, error) {
	switch cfg.AdWriter {
	case providerTemplate, "":
		return template.NewWriter(""), nil
	case config.ProviderOpenAI:
		return openAIClient(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported ad writer provider: %s", cfg.AdWriter)
	}
}

// RevectorizeAll reports whether every catalog vector must be recomputed at startup
func RevectorizeAll(cfg config.Provider, catalogCfg config.Catalog) bool {
	return catalogCfg.Revectorize || cfg.Embedder == config.ProviderTFIDF || cfg.Embedder == ""
}
