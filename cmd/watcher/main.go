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
	"github.com/BarkinBalci/ad-scouter-service/internal/changefeed/dynamodbstreams"
	"github.com/BarkinBalci/ad-scouter-service/internal/config"
	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/logger"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider/factory"
	"github.com/BarkinBalci/ad-scouter-service/internal/queue/sqs"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository/clickhouse"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository/dynamodb"
	"github.com/BarkinBalci/ad-scouter-service/internal/sales"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream/shard"
	"github.com/BarkinBalci/ad-scouter-service/internal/watcher"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Initialize logger
	log, err := logger.New(cfg.Service.Environment, cfg.Service.LogLevel, "watcher")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func(log *zap.Logger) {
		_ = log.Sync()
	}(log)

	if err := cfg.Validate(config.ComponentWatcher); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	trigger, ok := domain.ParseIntent(cfg.Watcher.TriggerIntent)
	if !ok {
		log.Fatal("Unknown trigger intent", zap.String("trigger_intent", cfg.Watcher.TriggerIntent))
	}

	log.Info("Starting lead watcher",
		zap.String("environment", cfg.Service.Environment),
		zap.String("mode", cfg.Consumer.Mode),
		zap.String("trigger_intent", string(trigger)))

	metrics.Register()

	ctx := context.Background()

	awsCfg, err := awsutil.LoadConfig(ctx, cfg.AWS, log)
	if err != nil {
		log.Fatal("Failed to load AWS config", zap.Error(err))
	}

	// Initialize ClickHouse client
	chClient, err := clickhouse.NewClient(ctx, cfg.ClickHouse, log)
	if err != nil {
		log.Fatal("Failed to create ClickHouse client", zap.Error(err))
	}
	defer func() {
		if err := chClient.Close(); err != nil {
			log.Error("Failed to close ClickHouse client", zap.Error(err))
		}
	}()

	repo := clickhouse.NewRepository(chClient, log)

	// Initialize schema (create tables if not exist)
	if err := repo.InitSchema(ctx); err != nil {
		log.Fatal("Failed to initialize schema", zap.Error(err))
	}
	log.Info("Database schema initialized")

	notifier := sqs.NewFromConfig(awsCfg, cfg.SQS.LeadQueueURL, log)
	workflow := sales.NewWorkflow(repo, notifier, log)

	extractor, err := factory.Extractor(cfg.Provider, log)
	if err != nil {
		log.Fatal("Failed to create advertiser extractor", zap.Error(err))
	}

	leadWatcher := watcher.NewWatcher(extractor, workflow, watcher.Config{
		TriggerIntent:  trigger,
		ExtractTimeout: time.Duration(cfg.Provider.TimeoutSec) * time.Second,
	}, log)

	if cfg.Consumer.Mode == config.ModeLambda {
		log.Info("Watcher running as Lambda handler")
		lambda.Start(leadWatcher.HandleDynamoDBEvent)
		return
	}

	source := dynamodbstreams.NewFromConfig(awsCfg, dynamodbstreams.Config{
		StreamARN:    cfg.ChangeFeed.StreamARN,
		IteratorType: cfg.ChangeFeed.IteratorType,
		MaxRecords:   cfg.ChangeFeed.MaxRecords,
	}, log)

	pollerCfg := shard.Config{
		PollInterval: time.Duration(cfg.ChangeFeed.PollIntervalMs) * time.Millisecond,
	}
	if cfg.Consumer.CheckpointTable != "" {
		pollerCfg.Checkpoints = dynamodb.NewCheckpointStoreFromConfig(awsCfg, cfg.Consumer.CheckpointTable, "watcher", log)
	} else {
		log.Warn("No checkpoint table configured, a restart replays from the change feed iterator type",
			zap.String("iterator_type", cfg.ChangeFeed.IteratorType))
	}

	poller := shard.NewPoller[watcher.ChangeRecord](source, leadWatcher.HandleShard, pollerCfg, log)

	// Start health check endpoint
	go func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			if err := repo.Ping(r.Context()); err != nil {
				log.Warn("Health check failed", zap.Error(err))
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
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

	log.Info("Watcher starting", zap.String("stream_arn", cfg.ChangeFeed.StreamARN))

	done := make(chan error, 1)
	go func() {
		done <- poller.Start(pollerCtx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-done:
		// Start only returns on its own when it could not begin polling.
		log.Fatal("Watcher poller stopped unexpectedly", zap.Error(err))
	case <-sigChan:
	}

	log.Info("Shutting down watcher gracefully")
	cancel()

	select {
	case err := <-done:
		if err != nil {
			log.Error("Watcher poller error", zap.Error(err))
		}
	case <-time.After(shutdownTimeout):
		log.Warn("Timed out waiting for in-flight batches")
	}
	log.Info("Watcher stopped")
}
