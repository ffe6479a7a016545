package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/stream/shard"
)

// CheckpointAPI is the subset of the DynamoDB client used by the checkpoint store
type CheckpointAPI interface {
	GetItem(ctx context.Context, params *awsdynamodb.GetItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
}

type checkpointKey struct {
	Consumer string `dynamodbav:"consumer"`
	ShardID  string `dynamodbav:"shardId"`
}

type checkpointItem struct {
	Consumer       string `dynamodbav:"consumer"`
	ShardID        string `dynamodbav:"shardId"`
	SequenceNumber string `dynamodbav:"sequenceNumber"`
}

// CheckpointStore keeps one row per (consumer, shardId) holding the last handled sequence number
type CheckpointStore struct {
	api       CheckpointAPI
	tableName string
	consumer  string
	log       *zap.Logger
}

var _ shard.Checkpointer = (*CheckpointStore)(nil)

// NewCheckpointStore creates a checkpoint store. consumer namespaces rows so several
// consumers can share a table.
func NewCheckpointStore(api CheckpointAPI, tableName, consumer string, log *zap.Logger) *CheckpointStore {
	return &CheckpointStore{
		api:       api,
		tableName: tableName,
		consumer:  consumer,
		log:       log,
	}
}

// NewCheckpointStoreFromConfig creates a checkpoint store backed by the AWS SDK
func NewCheckpointStoreFromConfig(cfg aws.Config, tableName, consumer string, log *zap.Logger) *CheckpointStore {
	return NewCheckpointStore(awsdynamodb.NewFromConfig(cfg), tableName, consumer, log)
}

// Checkpoint returns the stored sequence number for a shard, or "" when none is stored
func (s *CheckpointStore) Checkpoint(ctx context.Context, shardID string) (string, error) {
	key, err := attributevalue.MarshalMap(checkpointKey{Consumer: s.consumer, ShardID: shardID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal checkpoint key: %w", err)
	}

	out, err := s.api.GetItem(ctx, &awsdynamodb.GetItemInput{
		TableName:      aws.String(s.tableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get checkpoint: %w", err)
	}
	if len(out.Item) == 0 {
		return "", nil
	}

	var item checkpointItem
	if err := attributevalue.UnmarshalMap(out.Item, &item); err != nil {
		return "", fmt.Errorf("failed to unmarshal checkpoint: %w", err)
	}
	return item.SequenceNumber, nil
}

// SaveCheckpoint stores the last handled sequence number for a shard
func (s *CheckpointStore) SaveCheckpoint(ctx context.Context, shardID, sequence string) error {
	item, err := attributevalue.MarshalMap(checkpointItem{
		Consumer:       s.consumer,
		ShardID:        shardID,
		SequenceNumber: sequence,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}

	if _, err := s.api.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put checkpoint: %w", err)
	}

	s.log.Debug("Checkpoint saved",
		zap.String("shard_id", shardID),
		zap.String("sequence_number", sequence))

	return nil
}
