package main

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/BarkinBalci/ad-scouter-service/internal/catalog"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/factory"
	"github.com/BarkinBalci/ad-scouter-service/internal/service"
)

var matchCatalog string

func init() {
	rootCmd.AddCommand(matchCmd)
	matchCmd.Flags().StringVar(&matchCatalog, "catalog", "", "catalog file to match against (embedded default catalog when empty)")
}

var matchCmd = &cobra.Command{
	Use:   "match <query>",
	Short: "Match a query against the catalog and print the composed ad",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		entries, err := catalog.Load(matchCatalog)
		if err != nil {
			return err
		}

		embedder, err := factory.Embedder(cfg.Provider, catalog.Corpus(entries), log)
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}

		if _, err := catalog.Vectorize(cmd.Context(), entries, embedder, factory.RevectorizeAll(cfg.Provider, cfg.Catalog)); err != nil {
			return err
		}

		writer, err := factory.AdWriter(cfg.Provider, log)
		if err != nil {
			return fmt.Errorf("create ad writer: %w", err)
		}

		ads := service.NewAdService(embedder, entries, writer, time.Duration(cfg.Provider.TimeoutSec)*time.Second, log)
		response, err := ads.ComposeAd(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}
