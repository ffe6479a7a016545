package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Component identifies a binary whose startup requirements are validated
type Component string

const (
	ComponentAPI        Component = "api"
	ComponentClassifier Component = "classifier"
	ComponentWatcher    Component = "watcher"
	ComponentCatalogCtl Component = "catalogctl"
)

// Provider kinds
const (
	ProviderKeyword = "keyword"
	ProviderTFIDF   = "tfidf"
	ProviderOpenAI  = "openai"
)

// Consumer modes
const (
	ModePoll   = "poll"
	ModeLambda = "lambda"
)

type Config struct {
	Service    Service    `envconfig:"SERVICE"`
	AWS        AWS        `envconfig:"AWS"`
	Stream     Stream     `envconfig:"STREAM"`
	Store      Store      `envconfig:"STORE"`
	ChangeFeed ChangeFeed `envconfig:"CHANGEFEED"`
	ClickHouse ClickHouse `envconfig:"CLICKHOUSE"`
	SQS        SQS        `envconfig:"SQS"`
	Consumer   Consumer   `envconfig:"CONSUMER"`
	Provider   Provider   `envconfig:"PROVIDER"`
	Catalog    Catalog    `envconfig:"CATALOG"`
	Watcher    Watcher    `envconfig:"WATCHER"`
}

type Service struct {
	Environment string `envconfig:"ENVIRONMENT" required:"true"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	APIPort     string `envconfig:"API_PORT" default:"8080"`
}

type AWS struct {
	Region   string `envconfig:"REGION"`
	Endpoint string `envconfig:"ENDPOINT"`
}

type Stream struct {
	Name             string `envconfig:"NAME"`
	IteratorType     string `envconfig:"ITERATOR_TYPE" default:"TRIM_HORIZON"`
	MaxRecords       int32  `envconfig:"MAX_RECORDS" default:"100"`
	PollIntervalMs   int    `envconfig:"POLL_INTERVAL_MS" default:"1000"`
	AppendTimeoutSec int    `envconfig:"APPEND_TIMEOUT_SEC" default:"5"`
}

type Store struct {
	TableName     string `envconfig:"TABLE_NAME"`
	PutTimeoutSec int    `envconfig:"PUT_TIMEOUT_SEC" default:"5"`
}

type ChangeFeed struct {
	StreamARN      string `envconfig:"STREAM_ARN"`
	IteratorType   string `envconfig:"ITERATOR_TYPE" default:"TRIM_HORIZON"`
	MaxRecords     int32  `envconfig:"MAX_RECORDS" default:"100"`
	PollIntervalMs int    `envconfig:"POLL_INTERVAL_MS" default:"1000"`
}

type ClickHouse struct {
	Host            string `envconfig:"HOST"`
	Port            string `envconfig:"PORT"`
	Database        string `envconfig:"DB"`
	User            string `envconfig:"USER" default:""`
	Password        string `envconfig:"PASSWORD" default:""`
	UseTLS          bool   `envconfig:"USE_TLS" default:"false"`
	MaxOpenConns    int    `envconfig:"MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int    `envconfig:"MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
}

type SQS struct {
	LeadQueueURL string `envconfig:"LEAD_QUEUE_URL"`
}

type Consumer struct {
	Mode            string `envconfig:"MODE" default:"poll"`
	HealthCheckPort string `envconfig:"HEALTH_CHECK_PORT" default:"8081"`
	CheckpointTable string `envconfig:"CHECKPOINT_TABLE"`
}

type Provider struct {
	Classifier     string `envconfig:"CLASSIFIER" default:"keyword"`
	Extractor      string `envconfig:"EXTRACTOR" default:"keyword"`
	Embedder       string `envconfig:"EMBEDDER" default:"tfidf"`
	AdWriter       string `envconfig:"AD_WRITER" default:"template"`
	APIKey         string `envconfig:"API_KEY"`
	BaseURL        string `envconfig:"BASE_URL" default:"https://api.openai.com/v1"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-3-small"`
	TimeoutSec     int    `envconfig:"TIMEOUT_SEC" default:"10"`
}

type Catalog struct {
	Path        string `envconfig:"PATH"`
	Revectorize bool   `envconfig:"REVECTORIZE" default:"false"`
}

type Watcher struct {
	TriggerIntent string `envconfig:"TRIGGER_INTENT" default:"구매 고려"`
}

// ConfigError reports required settings that are missing for a component
type ConfigError struct {
	Component Component
	Missing   []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error for %s: missing %s", e.Component, strings.Join(e.Missing, ", "))
}

// Load reads an optional .env file and processes the environment into a Config
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that every setting the given component needs at startup is present
func (c *Config) Validate(component Component) error {
	var missing []string
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}

	switch component {
	case ComponentAPI:
		require(c.AWS.Region, "AWS_REGION")
		require(c.Stream.Name, "STREAM_NAME")
		c.requireClickHouse(require)
		if c.Provider.Embedder == ProviderOpenAI || c.Provider.AdWriter == ProviderOpenAI {
			require(c.Provider.APIKey, "PROVIDER_API_KEY")
		}
	case ComponentClassifier:
		require(c.AWS.Region, "AWS_REGION")
		require(c.Stream.Name, "STREAM_NAME")
		require(c.Store.TableName, "STORE_TABLE_NAME")
		if c.Provider.Classifier == ProviderOpenAI {
			require(c.Provider.APIKey, "PROVIDER_API_KEY")
		}
	case ComponentWatcher:
		require(c.AWS.Region, "AWS_REGION")
		if c.Consumer.Mode != ModeLambda {
			require(c.ChangeFeed.StreamARN, "CHANGEFEED_STREAM_ARN")
		}
		require(c.SQS.LeadQueueURL, "SQS_LEAD_QUEUE_URL")
		c.requireClickHouse(require)
		if c.Provider.Extractor == ProviderOpenAI {
			require(c.Provider.APIKey, "PROVIDER_API_KEY")
		}
	case ComponentCatalogCtl:
		if c.Provider.Embedder == ProviderOpenAI {
			require(c.Provider.APIKey, "PROVIDER_API_KEY")
		}
	}

	if c.Consumer.Mode != ModePoll && c.Consumer.Mode != ModeLambda {
		missing = append(missing, fmt.Sprintf("CONSUMER_MODE (unsupported value %q)", c.Consumer.Mode))
	}

	if len(missing) > 0 {
		return &ConfigError{Component: component, Missing: missing}
	}
	return nil
}

func (c *Config) requireClickHouse(require func(value, name string)) {
	require(c.ClickHouse.Host, "CLICKHOUSE_HOST")
	require(c.ClickHouse.Port, "CLICKHOUSE_PORT")
	require(c.ClickHouse.Database, "CLICKHOUSE_DB")
}
