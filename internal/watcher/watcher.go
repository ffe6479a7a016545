package watcher

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/provider"
)

// LeadSink accepts identified leads for the sales workflow
type LeadSink interface {
	Forward(ctx context.Context, lead *domain.LeadRecord) error
}

// Config configures the lead watcher
type Config struct {
	TriggerIntent  domain.Intent
	ExtractTimeout time.Duration
}

// BatchResult summarizes one change feed batch
type BatchResult struct {
	Received      int
	Ignored       int
	Malformed     int
	Identified    int
	NotIdentified int
	Failed        int
}

// Watcher turns newly stored purchase-consideration intents into leads
type Watcher struct {
	extractor provider.AdvertiserExtractor
	sink      LeadSink
	config    Config
	now       func() time.Time
	log       *zap.Logger
}

// NewWatcher creates a new lead watcher
func NewWatcher(extractor provider.AdvertiserExtractor, sink LeadSink, config Config, log *zap.Logger) *Watcher {
	if config.TriggerIntent == "" {
		config.TriggerIntent = domain.IntentPurchaseConsideration
	}
	if config.ExtractTimeout <= 0 {
		config.ExtractTimeout = 10 * time.Second
	}
	return &Watcher{
		extractor: extractor,
		sink:      sink,
		config:    config,
		now:       time.Now,
		log:       log,
	}
}

// HandleShard adapts HandleBatch to the shard poller
func (w *Watcher) HandleShard(ctx context.Context, shardID string, records []ChangeRecord) {
	result := w.HandleBatch(ctx, records)
	w.log.Info("Processed change feed batch",
		zap.String("shard_id", shardID),
		zap.Int("received", result.Received),
		zap.Int("identified", result.Identified),
		zap.Int("not_identified", result.NotIdentified),
		zap.Int("ignored", result.Ignored),
		zap.Int("malformed", result.Malformed),
		zap.Int("failed", result.Failed))
}

// HandleBatch inspects every INSERT entry; other operations are ignored.
// Entries are isolated from each other the same way the classifier isolates records.
func (w *Watcher) HandleBatch(ctx context.Context, records []ChangeRecord) BatchResult {
	result := BatchResult{Received: len(records)}

	for _, record := range records {
		w.handleRecordSafely(ctx, record, &result)
	}

	return result
}

func (w *Watcher) handleRecordSafely(ctx context.Context, record ChangeRecord, result *BatchResult) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Recovered panic while processing change record",
				zap.String("event_id", record.EventID),
				zap.Any("panic", r))
			result.Failed++
		}
	}()

	w.handleRecord(ctx, record, result)
}

func (w *Watcher) handleRecord(ctx context.Context, record ChangeRecord, result *BatchResult) {
	if record.EventName != EventInsert {
		result.Ignored++
		return
	}

	intentRecord, err := decodeIntentRecord(record.NewImage)
	if err != nil {
		w.log.Warn("Skipping change record with unreadable image",
			zap.String("event_id", record.EventID),
			zap.Error(err))
		result.Malformed++
		return
	}

	if intentRecord.Intent != w.config.TriggerIntent {
		result.Ignored++
		return
	}

	name, ok, err := w.extract(ctx, intentRecord.OriginalQuestion)
	if err != nil {
		w.log.Error("Advertiser extraction failed",
			zap.String("customer_id", intentRecord.CustomerID),
			zap.String("source_event_id", intentRecord.EventID),
			zap.Error(err))
		metrics.LeadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		result.Failed++
		return
	}

	if !ok {
		w.log.Info("No known advertiser in purchase-consideration question",
			zap.String("customer_id", intentRecord.CustomerID),
			zap.String("source_event_id", intentRecord.EventID))
		metrics.LeadsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
		result.NotIdentified++
		return
	}

	lead := &domain.LeadRecord{
		CustomerID:              intentRecord.CustomerID,
		PotentialAdvertiserName: name,
		OriginalQuestion:        intentRecord.OriginalQuestion,
		Status:                  domain.LeadStatusIdentified,
		SourceEventID:           intentRecord.EventID,
		Intent:                  intentRecord.Intent,
		IdentifiedAt:            w.identifiedAt(record),
	}

	if err := w.sink.Forward(ctx, lead); err != nil {
		w.log.Error("Failed to forward lead",
			zap.String("customer_id", lead.CustomerID),
			zap.String("advertiser", lead.PotentialAdvertiserName),
			zap.Error(err))
		metrics.LeadsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		result.Failed++
		return
	}

	w.log.Info("Identified potential advertiser",
		zap.String("customer_id", lead.CustomerID),
		zap.String("advertiser", lead.PotentialAdvertiserName),
		zap.String("source_event_id", lead.SourceEventID))
	metrics.LeadsTotal.WithLabelValues(metrics.OutcomeFound).Inc()
	result.Identified++
}

// identifiedAt uses the change time so a redelivered record yields an identical lead
func (w *Watcher) identifiedAt(record ChangeRecord) time.Time {
	if !record.CreatedAt.IsZero() {
		return record.CreatedAt.UTC()
	}
	return w.now().UTC()
}

func (w *Watcher) extract(ctx context.Context, question string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, w.config.ExtractTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.ProviderRequestDuration.WithLabelValues("extract").Observe(time.Since(start).Seconds())
	}()

	return w.extractor.ExtractAdvertiser(ctx, question)
}
