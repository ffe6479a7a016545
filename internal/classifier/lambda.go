package classifier

import (
	"context"

	"github.com/aws/aws-lambda-go/events"

	"github.com/BarkinBalci/ad-scouter-service/internal/stream"
)

// LambdaResponse is returned once per invocation
type LambdaResponse struct {
	StatusCode int         `json:"statusCode"`
	Result     BatchResult `json:"result"`
}

// HandleKinesisEvent processes a Kinesis event delivered by Lambda. Record data is
// already base64 decoded by the event's JSON decoding.
func (w *Worker) HandleKinesisEvent(ctx context.Context, event events.KinesisEvent) (LambdaResponse, error) {
	records := make([]stream.Record, 0, len(event.Records))
	for _, r := range event.Records {
		records = append(records, stream.Record{
			PartitionKey:   r.Kinesis.PartitionKey,
			SequenceNumber: r.Kinesis.SequenceNumber,
			Data:           r.Kinesis.Data,
			ArrivedAt:      r.Kinesis.ApproximateArrivalTimestamp.Time,
		})
	}

	return LambdaResponse{StatusCode: 200, Result: w.HandleBatch(ctx, records)}, nil
}
