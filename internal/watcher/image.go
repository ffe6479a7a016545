package watcher

import (
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/BarkinBalci/ad-scouter-service/internal/domain"
)

// Change feed operation names
const (
	EventInsert = "INSERT"
	EventModify = "MODIFY"
	EventRemove = "REMOVE"
)

var errMissingImage = errors.New("missing new image")

// ChangeRecord is one change feed entry with its typed new image.
// CreatedAt is the approximate time the change was written to the feed; it is
// the same on every redelivery.
type ChangeRecord struct {
	EventID        string
	EventName      string
	SequenceNumber string
	CreatedAt      time.Time
	NewImage       map[string]types.AttributeValue
}

// decodeIntentRecord is the single place where a typed item image is unwrapped into
// an intent record.
func decodeIntentRecord(image map[string]types.AttributeValue) (*domain.IntentRecord, error) {
	if len(image) == 0 {
		return nil, errMissingImage
	}

	var record domain.IntentRecord
	if err := attributevalue.UnmarshalMap(image, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal new image: %w", err)
	}
	if record.CustomerID == "" || record.EventID == "" {
		return nil, errors.New("new image lacks customerId or eventId")
	}
	return &record, nil
}

// FromLambdaImage converts a Lambda stream image into SDK attribute values
func FromLambdaImage(image map[string]events.DynamoDBAttributeValue) (map[string]types.AttributeValue, error) {
	if image == nil {
		return nil, nil
	}
	out := make(map[string]types.AttributeValue, len(image))
	for k, v := range image {
		av, err := fromLambdaValue(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

func fromLambdaValue(v events.DynamoDBAttributeValue) (types.AttributeValue, error) {
	switch v.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: v.String()}, nil
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: v.Number()}, nil
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: v.Binary()}, nil
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: v.Boolean()}, nil
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: true}, nil
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: v.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: v.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: v.BinarySet()}, nil
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(v.List()))
		for _, item := range v.List() {
			av, err := fromLambdaValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, av)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case events.DataTypeMap:
		m, err := FromLambdaImage(v.Map())
		if err != nil {
			return nil, err
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type %v", v.DataType())
	}
}
