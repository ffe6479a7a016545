package dynamodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// MockAPI is a mock implementation of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) PutItem(ctx context.Context, params *awsdynamodb.PutItemInput, _ ...func(*awsdynamodb.Options)) (*awsdynamodb.PutItemOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*awsdynamodb.PutItemOutput), args.Error(1)
}

func stringAttr(item map[string]types.AttributeValue, key string) string {
	if v, ok := item[key].(*types.AttributeValueMemberS); ok {
		return v.Value
	}
	return ""
}

func TestRepository_PutIntent_MarshalsCamelCaseAttributes(t *testing.T) {
	api := new(MockAPI)
	repo := NewRepository(api, "ad-scouter-stats", time.Second, zap.NewNop())

	record := &domain.IntentRecord{
		CustomerID:       "customer-1",
		EventID:          "6f1c1f0e-8d3a-4b7e-9a53-1a2b3c4d5e6f",
		EventName:        "question_asked",
		Intent:           domain.IntentPurchaseConsideration,
		OriginalQuestion: "가격은 얼마인가요?",
		Timestamp:        "2025-01-02T03:04:05Z",
	}

	api.On("PutItem", mock.Anything, mock.MatchedBy(func(in *awsdynamodb.PutItemInput) bool {
		return aws.ToString(in.TableName) == "ad-scouter-stats" &&
			stringAttr(in.Item, "customerId") == "customer-1" &&
			stringAttr(in.Item, "eventId") == record.EventID &&
			stringAttr(in.Item, "intent") == "구매 고려" &&
			stringAttr(in.Item, "originalQuestion") == "가격은 얼마인가요?"
	})).Return(&awsdynamodb.PutItemOutput{}, nil)

	err := repo.PutIntent(context.Background(), record)

	assert.NoError(t, err)
	api.AssertExpectations(t)
}

func TestRepository_PutIntent_Error(t *testing.T) {
	api := new(MockAPI)
	repo := NewRepository(api, "ad-scouter-stats", time.Second, zap.NewNop())

	api.On("PutItem", mock.Anything, mock.Anything).Return(nil, errors.New("ResourceNotFoundException"))

	err := repo.PutIntent(context.Background(), &domain.IntentRecord{CustomerID: "c", EventID: "e"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to put intent record")
}

func TestRepository_PutIntent_AppliesTimeout(t *testing.T) {
	api := new(MockAPI)
	repo := NewRepository(api, "ad-scouter-stats", 50*time.Millisecond, zap.NewNop())

	api.On("PutItem", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(&awsdynamodb.PutItemOutput{}, nil)

	assert.NoError(t, repo.PutIntent(context.Background(), &domain.IntentRecord{CustomerID: "c", EventID: "e"}))
	api.AssertExpectations(t)
}
