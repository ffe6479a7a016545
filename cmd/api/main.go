package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/awsutil"
	"github.com/BarkinBalci/ad-scouter-service/internal/catalog"
	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/handler"
	"github.com/BarkinBalci/ad-scouter-service/internal/logger"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/factory"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository/clickhouse"
	"github.com/BarkinBalci/ad-scouter-service/internal/service"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream/kinesis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel, "api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	if err := cfg.Validate(config.ComponentAPI); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting API service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("port", cfg.Service.APIPort))

	metrics.Register()

	ctx := context.Background()

	awsCfg, err := awsutil.LoadConfig(ctx, cfg.AWS, log)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// Initialize stream publisher
	publisher := kinesis.NewFromConfig(awsCfg, kinesis.Config{
		StreamName:    cfg.Stream.Name,
		IteratorType:  cfg.Stream.IteratorType,
		MaxRecords:    cfg.Stream.MaxRecords,
		AppendTimeout: time.Duration(cfg.Stream.AppendTimeoutSec) * time.Second,
	}, log)

	// Initialize ClickHouse client
	clickhouseClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func(clickhouseClient *clickhouse.Client) {
		if err := clickhouseClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}(clickhouseClient)

	repo := clickhouse.NewRepository(clickhouseClient, log)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}

	// Load and vectorize the advertiser catalog
	entries, err := catalog.Load(cfg.Catalog.Path)
	if err != nil {
		log.Fatal("Failed to load advertiser catalog", zap.Error(err))
	}

	embedder, err := factory.Embedder(cfg.Provider, catalog.Corpus(entries), log)
	if err != nil {
		log.Fatal("Failed to create embedder", zap.Error(err))
	}

	vectorized, err := catalog.Vectorize(ctx, entries, embedder, factory.RevectorizeAll(cfg.Provider, cfg.Catalog))
	if err != nil {
		log.Fatal("Failed to vectorize advertiser catalog", zap.Error(err))
	}
	log.Info("Advertiser catalog ready",
		zap.Int("advertisers", len(entries)),
		zap.Int("vectorized", vectorized),
		zap.String("embedder", cfg.Provider.Embedder))

	writer, err := factory.AdWriter(cfg.Provider, log)
	if err != nil {
		log.Fatal("Failed to create ad writer", zap.Error(err))
	}

	providerTimeout := time.Duration(cfg.Provider.TimeoutSec) * time.Second

	ingestService := service.NewIngestService(publisher, log)
	adService := service.NewAdService(embedder, entries, writer, providerTimeout, log)
	statsService := service.NewStatsService(repo, log)

	h := handler.NewHandler(ingestService, adService, statsService, log)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Service.APIPort),
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start API server", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down API server gracefully")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Failed to shut down API server", zap.Error(err))
	}
}
