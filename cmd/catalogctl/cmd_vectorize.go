package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/catalog"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/factory"
)

var (
	vectorizeIn    string
	vectorizeOut   string
	vectorizeForce bool
)

func init() {
	rootCmd.AddCommand(vectorizeCmd)
	vectorizeCmd.Flags().StringVar(&vectorizeIn, "in", "", "catalog file to read (embedded default catalog when empty)")
	vectorizeCmd.Flags().StringVar(&vectorizeOut, "out", "", "catalog file to write")
	vectorizeCmd.Flags().BoolVar(&vectorizeForce, "force", false, "re-embed entries that already carry a vector")
	_ = vectorizeCmd.MarkFlagRequired("out")
}

var vectorizeCmd = &cobra.Command{
	Use:   "vectorize",
	Short: "Embed advertiser descriptions and write a vectorized catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		entries, err := catalog.Load(vectorizeIn)
		if err != nil {
			return err
		}

		embedder, err := factory.Embedder(cfg.Provider, catalog.Corpus(entries), log)
		if err != nil {
			return fmt.Errorf("create embedder: %w", err)
		}

		overwrite := vectorizeForce || factory.RevectorizeAll(cfg.Provider, cfg.Catalog)
		count, err := catalog.Vectorize(cmd.Context(), entries, embedder, overwrite)
		if err != nil {
			return err
		}

		if err := catalog.Save(vectorizeOut, entries); err != nil {
			return err
		}

		log.Info("Catalog vectorized",
			zap.Int("advertisers", len(entries)),
			zap.Int("vectorized", count),
			zap.String("out", vectorizeOut))
		fmt.Fprintf(cmd.OutOrStdout(), "vectorized %d of %d advertisers into %s\n", count, len(entries), vectorizeOut)
		return nil
	},
}
