package event

import (
	"time"

	"github.com/google/uuid"
)

// Event represents a domain event emitted after a committed workflow change
type Event struct {
	ID        string                 `json:"id"`
	Type      Type                   `json:"type"`
	MemoID    string                 `json:"memo_id"`
	Payload   map[string]interface{} `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// NewEvent creates a new domain event with a generated ID and timestamp
func NewEvent(eventType Type, memoID string, payload map[string]interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		MemoID:    memoID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
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
