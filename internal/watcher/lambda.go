package watcher

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"
)

// LambdaResponse is returned once per invocation
type LambdaResponse struct {
	StatusCode int         `json:"statusCode"`
	Result     BatchResult `json:"result"`
}

// HandleDynamoDBEvent processes a DynamoDB stream event delivered by Lambda
func (w *Watcher) HandleDynamoDBEvent(ctx context.Context, event events.DynamoDBEvent) (LambdaResponse, error) {
	records := make([]ChangeRecord, 0, len(event.Records))
	malformed := 0

	for _, r := range event.Records {
		image, err := FromLambdaImage(r.Change.NewImage)
		if err != nil {
			w.log.Warn("Skipping change record with unsupported image",
				zap.String("event_id", r.EventID),
				zap.Error(err))
			malformed++
			continue
		}
		records = append(records, ChangeRecord{
			EventID:        r.EventID,
			EventName:      r.EventName,
			SequenceNumber: r.Change.SequenceNumber,
			CreatedAt:      r.Change.ApproximateCreationDateTime.Time,
			NewImage:       image,
		})
	}

	result := w.HandleBatch(ctx, records)
	result.Received += malformed
	result.Malformed += malformed

	return LambdaResponse{StatusCode: 200, Result: result}, nil
}
