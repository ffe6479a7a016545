package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/repository"
)

// API is the subset of the DynamoDB client used by this package
type API interface {
	PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, optFns ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error)
}

// Repository implements IntentRepository for a DynamoDB table keyed by (customerId, eventId)
type Repository struct {
	api        API
	tableName  string
	putTimeout time.Duration
	log        *zap.Logger
}

var _ repository.IntentRepository = (*Repository)(nil)

// NewRepository creates a new DynamoDB intent repository
func NewRepository(api API, tableName string, putTimeout time.Duration, log *zap.Logger) *Repository {
	return &Repository{
		api:        api,
		tableName:  tableName,
		putTimeout: putTimeout,
		log:        log,
	}
}

// NewFromConfig creates a repository backed by the AWS SDK
func NewFromConfig(cfg aws.Config, tableName string, putTimeout time.Duration, log *zap.Logger) *Repository {
	return NewRepository(awsdynamodb.NewFromConfig(cfg), tableName, putTimeout, log)
}

// PutIntent writes one intent record
func (r *Repository) PutIntent(ctx context.Context, record *domain.IntentRecord) error {
	item, err := attributevalue.MarshalMap(record)
	if err != nil {
		return fmt.Errorf("failed to marshal intent record: %w", err)
	}

	if r.putTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.putTimeout)
		defer cancel()
	}

	if _, err := r.api.PutItem(ctx, &awsdynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      item,
	}); err != nil {
		return fmt.Errorf("failed to put intent record: %w", err)
	}

	r.log.Debug("Intent record stored",
		zap.String("customer_id", record.CustomerID),
		zap.String("event_id", record.EventID),
		zap.String("intent", string(record.Intent)))

	return nil
}
