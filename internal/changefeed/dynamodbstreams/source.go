package dynamodbstreams

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	awsstreams "github.com/aws/aws-sdk-go-v2/service/dynamodbstreams"
	"github.com/aws/aws-sdk-go-v2/service/dynamodbstreams/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/stream/shard"
	"github.com/BarkinBalci/ad-scouter-service/internal/watcher"
)

// API is the subset of the DynamoDB Streams client used by this package
type API interface {
	DescribeStream(ctx context.Context, params *awsstreams.DescribeStreamInput, optFns ...func(*awsstreams.Options)) (*awsstreams.DescribeStreamOutput, error)
	GetShardIterator(ctx context.Context, params *awsstreams.GetShardIteratorInput, optFns ...func(*awsstreams.Options)) (*awsstreams.GetShardIteratorOutput, error)
	GetRecords(ctx context.Context, params *awsstreams.GetRecordsInput, optFns ...func(*awsstreams.Options)) (*awsstreams.GetRecordsOutput, error)
}

// Config configures the change feed source
type Config struct {
	StreamARN    string
	IteratorType string
	MaxRecords   int32
}

// Source reads the change feed of the intent table
type Source struct {
	api    API
	config Config
	log    *zap.Logger
}

var _ shard.Source[watcher.ChangeRecord] = (*Source)(nil)

// NewSource creates a new change feed source
func NewSource(api API, config Config, log *zap.Logger) *Source {
	if config.IteratorType == "" {
		config.IteratorType = string(types.ShardIteratorTypeLatest)
	}
	if config.MaxRecords <= 0 {
		config.MaxRecords = 100
	}
	return &Source{api: api, config: config, log: log}
}

// NewFromConfig creates a source backed by the AWS SDK
func NewFromConfig(cfg aws.Config, config Config, log *zap.Logger) *Source {
	return NewSource(awsstreams.NewFromConfig(cfg), config, log)
}

// Shards lists the shards of the stream with their parents
func (s *Source) Shards(ctx context.Context) ([]shard.Info, error) {
	var shards []shard.Info
	input := &awsstreams.DescribeStreamInput{StreamArn: aws.String(s.config.StreamARN)}

	for {
		out, err := s.api.DescribeStream(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe change feed stream: %w", err)
		}
		if out.StreamDescription == nil {
			return shards, nil
		}
		for _, sh := range out.StreamDescription.Shards {
			shards = append(shards, shard.Info{
				ID:       aws.ToString(sh.ShardId),
				ParentID: aws.ToString(sh.ParentShardId),
			})
		}
		if out.StreamDescription.LastEvaluatedShardId == nil {
			return shards, nil
		}
		input = &awsstreams.DescribeStreamInput{
			StreamArn:             aws.String(s.config.StreamARN),
			ExclusiveStartShardId: out.StreamDescription.LastEvaluatedShardId,
		}
	}
}

// Iterator returns a shard iterator for position, falling back to the configured iterator type
func (s *Source) Iterator(ctx context.Context, shardID string, position shard.Position) (string, error) {
	input := &awsstreams.GetShardIteratorInput{
		StreamArn:         aws.String(s.config.StreamARN),
		ShardId:           aws.String(shardID),
		ShardIteratorType: types.ShardIteratorType(s.config.IteratorType),
	}
	switch {
	case position.AfterSequence != "":
		input.ShardIteratorType = types.ShardIteratorTypeAfterSequenceNumber
		input.SequenceNumber = aws.String(position.AfterSequence)
	case position.Oldest:
		input.ShardIteratorType = types.ShardIteratorTypeTrimHorizon
	}

	out, err := s.api.GetShardIterator(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to get change feed shard iterator: %w", err)
	}
	return aws.ToString(out.ShardIterator), nil
}

// Read fetches the next batch of change records
func (s *Source) Read(ctx context.Context, iterator string) (*shard.Batch[watcher.ChangeRecord], error) {
	out, err := s.api.GetRecords(ctx, &awsstreams.GetRecordsInput{
		ShardIterator: aws.String(iterator),
		Limit:         aws.Int32(s.config.MaxRecords),
	})
	if err != nil {
		var expired *types.ExpiredIteratorException
		if errors.As(err, &expired) {
			return nil, fmt.Errorf("%w: %v", shard.ErrIteratorExpired, err)
		}
		return nil, fmt.Errorf("failed to get change feed records: %w", err)
	}

	batch := &shard.Batch[watcher.ChangeRecord]{
		Records:      make([]watcher.ChangeRecord, 0, len(out.Records)),
		NextIterator: aws.ToString(out.NextShardIterator),
	}
	for _, r := range out.Records {
		change := watcher.ChangeRecord{
			EventID:   aws.ToString(r.EventID),
			EventName: string(r.EventName),
		}
		if r.Dynamodb != nil {
			change.SequenceNumber = aws.ToString(r.Dynamodb.SequenceNumber)
			change.CreatedAt = aws.ToTime(r.Dynamodb.ApproximateCreationDateTime)
			change.NewImage = convertImage(r.Dynamodb.NewImage)
			batch.LastSequence = change.SequenceNumber
		}
		batch.Records = append(batch.Records, change)
	}

	return batch, nil
}

// convertImage maps stream attribute values onto the table's attribute value types,
// which carry the same shape under a different package.
func convertImage(image map[string]types.AttributeValue) map[string]ddbtypes.AttributeValue {
	if image == nil {
		return nil
	}
	out := make(map[string]ddbtypes.AttributeValue, len(image))
	for k, v := range image {
		if av := convertValue(v); av != nil {
			out[k] = av
		}
	}
	return out
}

func convertValue(v types.AttributeValue) ddbtypes.AttributeValue {
	switch tv := v.(type) {
	case *types.AttributeValueMemberS:
		return &ddbtypes.AttributeValueMemberS{Value: tv.Value}
	case *types.AttributeValueMemberN:
		return &ddbtypes.AttributeValueMemberN{Value: tv.Value}
	case *types.AttributeValueMemberB:
		return &ddbtypes.AttributeValueMemberB{Value: tv.Value}
	case *types.AttributeValueMemberBOOL:
		return &ddbtypes.AttributeValueMemberBOOL{Value: tv.Value}
	case *types.AttributeValueMemberNULL:
		return &ddbtypes.AttributeValueMemberNULL{Value: tv.Value}
	case *types.AttributeValueMemberSS:
		return &ddbtypes.AttributeValueMemberSS{Value: tv.Value}
	case *types.AttributeValueMemberNS:
		return &ddbtypes.AttributeValueMemberNS{Value: tv.Value}
	case *types.AttributeValueMemberBS:
		return &ddbtypes.AttributeValueMemberBS{Value: tv.Value}
	case *types.AttributeValueMemberL:
		list := make([]ddbtypes.AttributeValue, 0, len(tv.Value))
		for _, item := range tv.Value {
			if av := convertValue(item); av != nil {
				list = append(list, av)
			}
		}
		return &ddbtypes.AttributeValueMemberL{Value: list}
	case *types.AttributeValueMemberM:
		return &ddbtypes.AttributeValueMemberM{Value: convertImage(tv.Value)}
	default:
		return nil
	}
}
