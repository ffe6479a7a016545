package stream

import (
	"context"
	"time"
)

// Record is one entry read from a partition of the ordered stream
type Record struct {
	PartitionKey   string
	SequenceNumber string
	Data           []byte
	ArrivedAt      time.Time
}

// Publisher appends records to the stream. Records sharing a partition key keep their relative order.
type Publisher interface {
	Append(ctx context.Context, partitionKey string, data []byte) error
}
