package classifier

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream"
)

// Config configures the classifier worker
type Config struct {
	ClassifyTimeout time.Duration
}

// BatchResult summarizes one processed batch. A batch is always reported as processed;
// the counters only describe what happened to its records.
type BatchResult struct {
	Received       int
	Stored         int
	Skipped        int
	Failed         int
	AnalysisFailed int
}

type outcome int

const (
	outcomeStored outcome = iota
	outcomeSkipped
	outcomeFailed
)

// Worker classifies ingest events read from the stream and stores intent records
type Worker struct {
	classifier provider.Classifier
	repo       repository.IntentRepository
	redactor   Redactor
	config     Config
	newID      func() string
	log        *zap.Logger
}

// NewWorker creates a new classifier worker; a nil redactor passes questions through
func NewWorker(classifier provider.Classifier, repo repository.IntentRepository, redactor Redactor, config Config, log *zap.Logger) *Worker {
	if redactor == nil {
		redactor = PassthroughRedactor{}
	}
	if config.ClassifyTimeout <= 0 {
		config.ClassifyTimeout = 10 * time.Second
	}
	return &Worker{
		classifier: classifier,
		repo:       repo,
		redactor:   redactor,
		config:     config,
		newID:      func() string { return uuid.New().String() },
		log:        log,
	}
}

// HandleShard adapts HandleBatch to the shard poller
func (w *Worker) HandleShard(ctx context.Context, shardID string, records []stream.Record) {
	result := w.HandleBatch(ctx, records)
	w.log.Info("Processed stream batch",
		zap.String("shard_id", shardID),
		zap.Int("received", result.Received),
		zap.Int("stored", result.Stored),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
		zap.Int("analysis_failed", result.AnalysisFailed))
}

// HandleBatch processes records sequentially. Each record is isolated: a failure or panic
// while handling one record is logged and never stops the rest of the batch.
func (w *Worker) HandleBatch(ctx context.Context, records []stream.Record) BatchResult {
	result := BatchResult{Received: len(records)}

	for _, record := range records {
		out, intent := w.handleRecordSafely(ctx, record)
		switch out {
		case outcomeStored:
			result.Stored++
			if intent == domain.IntentAnalysisFailed {
				result.AnalysisFailed++
			}
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failed++
		}
	}

	return result
}

func (w *Worker) handleRecordSafely(ctx context.Context, record stream.Record) (out outcome, intent domain.Intent) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Recovered panic while processing record",
				zap.String("sequence_number", record.SequenceNumber),
				zap.Any("panic", r))
			out = outcomeFailed
		}
	}()

	return w.handleRecord(ctx, record)
}

func (w *Worker) handleRecord(ctx context.Context, record stream.Record) (outcome, domain.Intent) {
	event, err := ParseEvent(record.SequenceNumber, record.Data)
	if err != nil {
		w.log.Warn("Skipping undecodable record",
			zap.String("sequence_number", record.SequenceNumber),
			zap.ByteString("data", record.Data),
			zap.Error(err))
		metrics.ClassifierRecordsSkippedTotal.Inc()
		return outcomeSkipped, ""
	}

	question, ok := event.Question()
	if !ok {
		w.log.Debug("Skipping record without question",
			zap.String("sequence_number", record.SequenceNumber),
			zap.String("event_name", event.EventName))
		metrics.ClassifierRecordsSkippedTotal.Inc()
		return outcomeSkipped, ""
	}

	redacted, err := w.redactor.Redact(ctx, question)
	if err != nil {
		w.log.Error("Failed to redact question",
			zap.String("sequence_number", record.SequenceNumber),
			zap.Error(err))
		return outcomeFailed, ""
	}

	intent := w.classify(ctx, redacted)

	intentRecord := &domain.IntentRecord{
		CustomerID:       event.APIKey,
		EventID:          w.newID(),
		EventName:        event.EventName,
		Intent:           intent,
		OriginalQuestion: redacted,
		Timestamp:        string(event.Timestamp),
	}

	if err := w.repo.PutIntent(ctx, intentRecord); err != nil {
		w.log.Error("Failed to store intent record",
			zap.String("customer_id", intentRecord.CustomerID),
			zap.String("event_id", intentRecord.EventID),
			zap.Error(err))
		metrics.StoreFailuresTotal.Inc()
		return outcomeFailed, intent
	}

	metrics.ClassifiedIntentsTotal.WithLabelValues(string(intent)).Inc()
	w.log.Info("Stored intent record",
		zap.String("customer_id", intentRecord.CustomerID),
		zap.String("event_id", intentRecord.EventID),
		zap.String("intent", string(intent)))

	return outcomeStored, intent
}

// classify never fails: provider errors, timeouts and labels outside the closed set
// all map to the analysis-failed sentinel so the record is still stored.
func (w *Worker) classify(ctx context.Context, text string) domain.Intent {
	ctx, cancel := context.WithTimeout(ctx, w.config.ClassifyTimeout)
	defer cancel()

	start := time.Now()
	label, err := w.classifier.Classify(ctx, text)
	metrics.ProviderRequestDuration.WithLabelValues("classify").Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("classification timed out after %s: %w", w.config.ClassifyTimeout, err)
		}
		w.log.Warn("Classification failed", zap.Error(err))
		return domain.IntentAnalysisFailed
	}

	intent, ok := domain.ParseIntent(label)
	if !ok {
		w.log.Warn("Classifier returned a label outside the closed set", zap.String("label", label))
		return domain.IntentAnalysisFailed
	}

	return intent
}
