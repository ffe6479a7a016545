package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "catalogctl",
	Short:         "Maintain the advertiser catalog used for ad matching",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setup loads and validates configuration and builds a logger for a subcommand
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel, "catalogctl")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := cfg.Validate(config.ComponentCatalogCtl); err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}
