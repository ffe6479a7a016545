package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// EventTime is the client supplied event timestamp. Clients send either an
// ISO-8601 string or epoch seconds, and the value is stored verbatim as text.
type EventTime string

// UnmarshalJSON accepts a JSON string, a JSON number or null
func (t *EventTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = EventTime(s)
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("timestamp must be a string or a number: %w", err)
		}
		*t = EventTime(n.String())
	}
	return nil
}

// IngestEvent is the client event accepted by the ingest endpoint
type IngestEvent struct {
	APIKey     string                 `json:"apiKey"`
	EventName  string                 `json:"eventName"`
	Properties map[string]interface{} `json:"properties,omitempty"`
	Timestamp  EventTime              `json:"timestamp,omitempty"`
	URL        string                 `json:"url,omitempty"`
	UserAgent  string                 `json:"userAgent,omitempty"`
}

// Question returns properties.question when it is a non-blank string
func (e *IngestEvent) Question() (string, bool) {
	if e.Properties == nil {
		return "", false
	}
	q, ok := e.Properties["question"].(string)
	if !ok || strings.TrimSpace(q) == "" {
		return "", false
	}
	return q, true
}

// IntentRecord is the classified event persisted in the intent store.
// The key is (CustomerID, EventID).
type IntentRecord struct {
	CustomerID       string `dynamodbav:"customerId" json:"customerId"`
	EventID          string `dynamodbav:"eventId" json:"eventId"`
	EventName        string `dynamodbav:"eventName" json:"eventName"`
	Intent           Intent `dynamodbav:"intent" json:"intent"`
	OriginalQuestion string `dynamodbav:"originalQuestion" json:"originalQuestion"`
	Timestamp        string `dynamodbav:"timestamp" json:"timestamp"`
}
