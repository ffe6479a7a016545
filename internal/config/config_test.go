package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validBase() *Config {
	return &Config{
		Service:  Service{Environment: "test"},
		AWS:      AWS{Region: "ap-northeast-2"},
		Consumer: Consumer{Mode: ModePoll},
		Provider: Provider{Classifier: ProviderKeyword, Extractor: ProviderKeyword, Embedder: ProviderTFIDF, AdWriter: "template"},
	}
}

func TestLoad_NestedPrefixes(t *testing.T) {
	t.Setenv("SERVICE_ENVIRONMENT", "production")
	t.Setenv("STREAM_NAME", "ad-scouter-ingest-stream")
	t.Setenv("STORE_TABLE_NAME", "ad-scouter-stats")
	t.Setenv("PROVIDER_TIMEOUT_SEC", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Service.Environment)
	assert.Equal(t, "ad-scouter-ingest-stream", cfg.Stream.Name)
	assert.Equal(t, "ad-scouter-stats", cfg.Store.TableName)
	assert.Equal(t, 3, cfg.Provider.TimeoutSec)
	assert.Equal(t, "8080", cfg.Service.APIPort)
	assert.Equal(t, ModePoll, cfg.Consumer.Mode)
	assert.Equal(t, "구매 고려", cfg.Watcher.TriggerIntent)
	assert.Equal(t, "TRIM_HORIZON", cfg.Stream.IteratorType)
	assert.Equal(t, "TRIM_HORIZON", cfg.ChangeFeed.IteratorType)
	assert.Empty(t, cfg.Consumer.CheckpointTable)
}

func TestValidate_ClassifierRequiresStreamAndTable(t *testing.T) {
	cfg := validBase()

	err := cfg.Validate(ComponentClassifier)

	var cfgErr *ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, ComponentClassifier, cfgErr.Component)
	assert.ElementsMatch(t, []string{"STREAM_NAME", "STORE_TABLE_NAME"}, cfgErr.Missing)
}

func TestValidate_OpenAIProviderRequiresCredential(t *testing.T) {
	cfg := validBase()
	cfg.Stream.Name = "stream"
	cfg.Store.TableName = "table"
	cfg.Provider.Classifier = ProviderOpenAI

	err := cfg.Validate(ComponentClassifier)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "PROVIDER_API_KEY")

	cfg.Provider.APIKey = "sk-test"
	assert.NoError(t, cfg.Validate(ComponentClassifier))
}

func TestValidate_WatcherLambdaModeSkipsStreamARN(t *testing.T) {
	cfg := validBase()
	cfg.SQS.LeadQueueURL = "http://localhost:4566/000000000000/leads"
	cfg.ClickHouse = ClickHouse{Host: "localhost", Port: "9000", Database: "default"}

	assert.Error(t, cfg.Validate(ComponentWatcher))

	cfg.Consumer.Mode = ModeLambda
	assert.NoError(t, cfg.Validate(ComponentWatcher))
}

func TestValidate_UnsupportedConsumerMode(t *testing.T) {
	cfg := validBase()
	cfg.Consumer.Mode = "push"

	err := cfg.Validate(ComponentCatalogCtl)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "CONSUMER_MODE")
}
