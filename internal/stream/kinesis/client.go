package kinesis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awskinesis "github.com/aws/aws-sdk-go-v2/service/kinesis"
	"github.com/aws/aws-sdk-go-v2/service/kinesis/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/stream"
	"github.com/BarkinBalci/ad-scouter-service/internal/stream/shard"
)

// API is the subset of the Kinesis client used by this package
type API interface {
	PutRecord(ctx context.Context, params *awskinesis.PutRecordInput, optFns ...func(*awskinesis.Options)) (*awskinesis.PutRecordOutput, error)
	ListShards(ctx context.Context, params *awskinesis.ListShardsInput, optFns ...func(*awskinesis.Options)) (*awskinesis.ListShardsOutput, error)
	GetShardIterator(ctx context.Context, params *awskinesis.GetShardIteratorInput, optFns ...func(*awskinesis.Options)) (*awskinesis.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *awskinesis.GetRecordsInput, optFns ...func(*awskinesis.Options)) (*awskinesis.GetRecordsOutput, error)
}

// Config configures the Kinesis stream client
type Config struct {
	StreamName    string
	IteratorType  string
	MaxRecords    int32
	AppendTimeout time.Duration
}

// Client appends to and reads from a Kinesis data stream
type Client struct {
	api    API
	config Config
	log    *zap.Logger
}

var (
	_ stream.Publisher            = (*Client)(nil)
	_ shard.Source[stream.Record] = (*Client)(nil)
)

// NewClient creates a new Kinesis stream client
func NewClient(api API, config Config, log *zap.Logger) *Client {
	if config.IteratorType == "" {
		config.IteratorType = string(types.ShardIteratorTypeLatest)
	}
	if config.MaxRecords <= 0 {
		config.MaxRecords = 100
	}

	log.Info("Kinesis client created",
		zap.String("stream_name", config.StreamName),
		zap.String("iterator_type", config.IteratorType))

	return &Client{
		api:    api,
		config: config,
		log:    log,
	}
}

// NewFromConfig creates a client backed by the AWS SDK
func NewFromConfig(cfg aws.Config, config Config, log *zap.Logger) *Client {
	return NewClient(awskinesis.NewFromConfig(cfg), config, log)
}

// Append puts one record on the stream using the partition key for shard selection
func (c *Client) Append(ctx context.Context, partitionKey string, data []byte) error {
	if c.config.AppendTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.AppendTimeout)
		defer cancel()
	}

	out, err := c.api.PutRecord(ctx, &awskinesis.PutRecordInput{
		StreamName:   aws.String(c.config.StreamName),
		PartitionKey: aws.String(partitionKey),
		Data:         data,
	})
	if err != nil {
		c.log.Error("Failed to put record to Kinesis",
			zap.String("stream_name", c.config.StreamName),
			zap.Error(err))
		return fmt.Errorf("failed to put record to Kinesis: %w", err)
	}

	c.log.Debug("Record appended to Kinesis",
		zap.String("shard_id", aws.ToString(out.ShardId)),
		zap.String("sequence_number", aws.ToString(out.SequenceNumber)))

	return nil
}

// Shards lists every shard of the stream with its parent
func (c *Client) Shards(ctx context.Context) ([]shard.Info, error) {
	var shards []shard.Info
	input := &awskinesis.ListShardsInput{StreamName: aws.String(c.config.StreamName)}

	for {
		out, err := c.api.ListShards(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to list Kinesis shards: %w", err)
		}
		for _, s := range out.Shards {
			shards = append(shards, shard.Info{
				ID:       aws.ToString(s.ShardId),
				ParentID: aws.ToString(s.ParentShardId),
			})
		}
		if out.NextToken == nil {
			return shards, nil
		}
		// StreamName must be omitted when paginating with NextToken
		input = &awskinesis.ListShardsInput{NextToken: out.NextToken}
	}
}

// Iterator returns a shard iterator for position, falling back to the configured iterator type
func (c *Client) Iterator(ctx context.Context, shardID string, position shard.Position) (string, error) {
	input := &awskinesis.GetShardIteratorInput{
		StreamName:        aws.String(c.config.StreamName),
		ShardId:           aws.String(shardID),
		ShardIteratorType: types.ShardIteratorType(c.config.IteratorType),
	}
	switch {
	case position.AfterSequence != "":
		input.ShardIteratorType = types.ShardIteratorTypeAfterSequenceNumber
		input.StartingSequenceNumber = aws.String(position.AfterSequence)
	case position.Oldest:
		input.ShardIteratorType = types.ShardIteratorTypeTrimHorizon
	}

	out, err := c.api.GetShardIterator(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to get Kinesis shard iterator: %w", err)
	}
	return aws.ToString(out.ShardIterator), nil
}

// Read fetches the next batch of records for a shard iterator
func (c *Client) Read(ctx context.Context, iterator string) (*shard.Batch[stream.Record], error) {
	out, err := c.api.GetRecords(ctx, &awskinesis.GetRecordsInput{
		ShardIterator: aws.String(iterator),
		Limit:         aws.Int32(c.config.MaxRecords),
	})
	if err != nil {
		var expired *types.ExpiredIteratorException
		if errors.As(err, &expired) {
			return nil, fmt.Errorf("%w: %v", shard.ErrIteratorExpired, err)
		}
		return nil, fmt.Errorf("failed to get Kinesis records: %w", err)
	}

	batch := &shard.Batch[stream.Record]{
		Records:            make([]stream.Record, 0, len(out.Records)),
		NextIterator:       aws.ToString(out.NextShardIterator),
		MillisBehindLatest: aws.ToInt64(out.MillisBehindLatest),
	}
	for _, r := range out.Records {
		batch.Records = append(batch.Records, stream.Record{
			PartitionKey:   aws.ToString(r.PartitionKey),
			SequenceNumber: aws.ToString(r.SequenceNumber),
			Data:           r.Data,
			ArrivedAt:      aws.ToTime(r.ApproximateArrivalTimestamp),
		})
		batch.LastSequence = aws.ToString(r.SequenceNumber)
	}

	return batch, nil
}
