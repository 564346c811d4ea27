package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is something that happened to the registry
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	RecordID  string                 `json:"record_id,omitempty"`
	Actor     string                 `json:"actor,omitempty"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent creates an event with a fresh ID. recordID may be empty for
// events that are not about a single record.
func NewEvent(eventType Type, recordID string, payload map[string]interface{}) *Event {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		RecordID:  recordID,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// WithActor returns a copy of the event attributed to actor
func (e *Event) WithActor(actor string) *Event {
	out := *e
	out.Actor = actor
	return &out
}

// GetPayloadString retrieves a string value from the payload
func (e *Event) GetPayloadString(key string) string {
	if val, ok := e.Payload[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

// GetPayloadInt retrieves an integer value from the payload
func (e *Event) GetPayloadInt(key string) int {
	if val, ok := e.Payload[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}
