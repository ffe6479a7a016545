package classifier

import (
	"encoding/json"
	"fmt"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// DecodeError is returned when a stream record does not hold an ingest event
type DecodeError struct {
	SequenceNumber string
	Err            error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode record %s: %v", e.SequenceNumber, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ParseEvent decodes a stream payload into an ingest event
func ParseEvent(sequenceNumber string, data []byte) (*domain.IngestEvent, error) {
	var event domain.IngestEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, &DecodeError{SequenceNumber: sequenceNumber, Err: err}
	}
	return &event, nil
}
