package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/awsutil"
	"github.com/BarkinBalci/ad-scouter-service/internal/classifier"
	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/logger"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/factory"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository/dynamodb"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream/kinesis"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream/shard"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel, "classifier")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	if err := cfg.Validate(config.ComponentClassifier); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting classifier service",
		zap.String("environment", cfg.Service.Environment),
		zap.String("mode", cfg.Consumer.Mode),
		zap.String("provider", cfg.Provider.Classifier))

	metrics.Register()

	ctx := context.Background()

	awsCfg, err := awsutil.LoadConfig(ctx, cfg.AWS, log)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	intentClassifier, err := factory.Classifier(cfg.Provider, log)
	if err != nil {
		log.Fatal("Failed to create classifier", zap.Error(err))
	}

	repo := dynamodb.NewFromConfig(awsCfg, cfg.Store.TableName,
		time.Duration(cfg.Store.PutTimeoutSec)*time.Second, log)

	worker := classifier.NewWorker(intentClassifier, repo, classifier.PassthroughRedactor{}, classifier.Config{
		ClassifyTimeout: time.Duration(cfg.Provider.TimeoutSec) * time.Second,
	}, log)

	if cfg.Consumer.Mode == config.ModeLambda {
		log.Info("Classifier running as Lambda handler")
		lambda.Start(worker.HandleKinesisEvent)
		return
	}

	source := kinesis.NewFromConfig(awsCfg, kinesis.Config{
		StreamName:   cfg.Stream.Name,
		IteratorType: cfg.Stream.IteratorType,
		MaxRecords:   cfg.Stream.MaxRecords,
	}, log)

	pollerCfg := shard.Config{
		PollInterval: time.Duration(cfg.Stream.PollIntervalMs) * time.Millisecond,
	}
	if cfg.Consumer.CheckpointTable != "" {
		pollerCfg.Checkpoints = dynamodb.NewCheckpointStoreFromConfig(awsCfg, cfg.Consumer.CheckpointTable, "classifier", log)
	} else {
		log.Warn("No checkpoint table configured, a restart replays from the stream iterator type",
			zap.String("iterator_type", cfg.Stream.IteratorType))
	}

	poller := shard.NewPoller[stream.Record](source, worker.HandleShard, pollerCfg, log)

	// Start health check endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		mux.Handle("/metrics", promhttp.Handler())

		addr := ":" + cfg.Consumer.HealthCheckPort
		log.Info("Health check server starting", zap.String("address", addr))
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Error("Health check server error", zap.Error(err))
		}
	}()

	pollerCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	log.Info("Classifier starting", zap.String("stream", cfg.Stream.Name))

	done := make(chan error, 1)
	go func() {
		done <- poller.Start(pollerCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		// Start only returns on its own when it could not begin polling.
		log.Fatal("Classifier poller stopped unexpectedly", zap.Error(err))
	case <-sigChan:
	}

	log.Info("Shutting down classifier gracefully")
	cancel()

	select {
	case err := <-done:
		if err != nil {
			log.Error("Classifier poller error", zap.Error(err))
		}
	case <-time.After(shutdownTimeout):
		log.Warn("Timed out waiting for in-flight batches")
	}
	log.Info("Classifier stopped")
}
