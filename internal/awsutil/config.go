package awsutil

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"go.uber.org/zap"

	envConfig "github.com/BarkinBalci/ad-scouter-service/internal/config"
)

// LoadConfig loads the shared AWS configuration used by every service client.
// When an endpoint is set (LocalStack) static dummy credentials are used and every
// client is pointed at that endpoint.
func LoadConfig(ctx context.Context, awsConfig envConfig.AWS, log *zap.Logger) (aws.Config, error) {
	configOpts := LoadOptions(awsConfig)

	if awsConfig.Endpoint != "" {
		log.Info("Configuring AWS clients for local development",
			zap.String("endpoint", awsConfig.Endpoint))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}

	if awsConfig.Endpoint != "" {
		cfg.BaseEndpoint = aws.String(awsConfig.Endpoint)
	}

	log.Info("AWS config loaded", zap.String("region", cfg.Region))

	return cfg, nil
}

// LoadOptions returns the config.LoadDefaultConfig options for the given settings
func LoadOptions(awsConfig envConfig.AWS) []func(*config.LoadOptions) error {
	configOpts := []func(*config.LoadOptions) error{
		config.WithRegion(awsConfig.Region),
	}

	if awsConfig.Endpoint != "" {
		configOpts = append(configOpts,
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("dummy", "dummy", "")),
		)
	}

	return configOpts
}
