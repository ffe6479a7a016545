package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/metrics"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream"
)

// IngestService validates client events and appends them to the stream
type IngestService struct {
	publisher stream.Publisher
	log       *zap.Logger
}

// NewIngestService creates a new ingest service
func NewIngestService(publisher stream.Publisher, log *zap.Logger) *IngestService {
	return &IngestService{
		publisher: publisher,
		log:       log,
	}
}

// Ingest validates body and appends it unchanged, partitioned by API key.
// Exactly one append happens for an accepted event and none for a rejected one.
func (s *IngestService) Ingest(ctx context.Context, body []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(body), []byte("{")) {
		metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return fmt.Errorf("%w: body must be a JSON object", ErrMalformedInput)
	}

	var event domain.IngestEvent
	if err := json.Unmarshal(body, &event); err != nil {
		metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	// Presence only; key validation against a customer registry is not done here.
	if event.APIKey == "" {
		metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return ErrUnauthenticated
	}

	if event.EventName == "" {
		metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return fmt.Errorf("%w: eventName is required", ErrInvalidRequest)
	}

	if err := s.publisher.Append(ctx, event.APIKey, body); err != nil {
		metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeFailed).Inc()
		return fmt.Errorf("failed to append event to stream: %w", err)
	}

	metrics.IngestEventsTotal.WithLabelValues(metrics.OutcomeAccepted).Inc()
	s.log.Info("Event accepted",
		zap.String("event_name", event.EventName),
		zap.String("api_key_prefix", keyPrefix(event.APIKey)))

	return nil
}

func keyPrefix(key string) string {
	r := []rune(key)
	if len(r) <= 5 {
		return string(r)
	}
	return string(r[:5]) + "..."
}
