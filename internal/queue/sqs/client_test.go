package sqs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

const testQueueURL = "http://localhost:4566/000000000000/ad-scouter-leads"

// MockAPI is a mock implementation of API
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) SendMessage(ctx context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sqs.SendMessageOutput), args.Error(1)
}

func testLead() *domain.LeadRecord {
	return &domain.LeadRecord{
		CustomerID:              "customer-1",
		PotentialAdvertiserName: "Google",
		OriginalQuestion:        "구글 클라우드 가격은?",
		Status:                  domain.LeadStatusIdentified,
		SourceEventID:           "evt-1",
		Intent:                  domain.IntentPurchaseConsideration,
		IdentifiedAt:            time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestClient_PublishLead(t *testing.T) {
	api := new(MockAPI)
	client := NewClient(api, testQueueURL, zap.NewNop())

	api.On("SendMessage", mock.Anything, mock.MatchedBy(func(in *sqs.SendMessageInput) bool {
		var body domain.LeadRecord
		if err := json.Unmarshal([]byte(aws.ToString(in.MessageBody)), &body); err != nil {
			return false
		}
		return aws.ToString(in.QueueUrl) == testQueueURL &&
			body.PotentialAdvertiserName == "Google" &&
			body.Status == domain.LeadStatusIdentified &&
			aws.ToString(in.MessageAttributes["Advertiser"].StringValue) == "Google"
	})).Return(&sqs.SendMessageOutput{MessageId: aws.String("msg-1")}, nil)

	err := client.PublishLead(context.Background(), testLead())

	assert.NoError(t, err)
	api.AssertExpectations(t)
}

func TestClient_PublishLead_Error(t *testing.T) {
	api := new(MockAPI)
	client := NewClient(api, testQueueURL, zap.NewNop())

	api.On("SendMessage", mock.Anything, mock.Anything).Return(nil, errors.New("queue does not exist"))

	err := client.PublishLead(context.Background(), testLead())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send message to SQS")
}
