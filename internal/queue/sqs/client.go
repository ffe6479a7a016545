package sqs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"go.uber.org/zap"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
	"github.com/BarkinBalci/ad-scouter-service/internal/queue"
)

// API is the subset of the SQS client used by this package
type API interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// Client publishes lead notifications to an SQS queue
type Client struct {
	api      API
	queueURL string
	log      *zap.Logger
}

var _ queue.LeadNotifier = (*Client)(nil)

// NewClient creates a new SQS lead notifier
func NewClient(api API, queueURL string, log *zap.Logger) *Client {
	log.Info("SQS client created", zap.String("queue_url", queueURL))

	return &Client{
		api:      api,
		queueURL: queueURL,
		log:      log,
	}
}

// NewFromConfig creates a notifier backed by the AWS SDK
func NewFromConfig(cfg aws.Config, queueURL string, log *zap.Logger) *Client {
	return NewClient(sqs.NewFromConfig(cfg), queueURL, log)
}

// PublishLead sends one lead notification
func (c *Client) PublishLead(ctx context.Context, lead *domain.LeadRecord) error {
	bodyJSON, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("failed to marshal lead: %w", err)
	}

	_, err = c.api.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(c.queueURL),
		MessageBody: aws.String(string(bodyJSON)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Advertiser": {
				DataType:    aws.String("String"),
				StringValue: aws.String(lead.PotentialAdvertiserName),
			},
			"CustomerId": {
				DataType:    aws.String("String"),
				StringValue: aws.String(lead.CustomerID),
			},
		},
	})
	if err != nil {
		c.log.Error("Failed to send lead notification to SQS",
			zap.String("source_event_id", lead.SourceEventID),
			zap.String("advertiser", lead.PotentialAdvertiserName),
			zap.Error(err))
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	c.log.Info("Lead notification published to SQS",
		zap.String("source_event_id", lead.SourceEventID),
		zap.String("advertiser", lead.PotentialAdvertiserName))

	return nil
}
