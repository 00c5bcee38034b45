package publishers

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event represents a fetched API payload forwarded downstream.
type Event struct {
	ID         string            `json:"id"`
	Endpoint   string            `json:"endpoint"`
	Identifier string            `json:"identifier"`
	Params     map[string]string `json:"params,omitempty"`
	RequestURL string            `json:"request_url"`
	FetchedAt  time.Time         `json:"fetched_at"`
	// Payload holds the body when it is valid JSON; PayloadText holds it otherwise.
	Payload     json.RawMessage `json:"payload,omitempty"`
	PayloadText string          `json:"payload_text,omitempty"`
}

// NewEvent constructs an Event for a fetched payload. requestURL must already be redacted.
func NewEvent(endpoint, identifier string, params map[string]string, requestURL string, payload []byte) Event {
	evt := Event{
		ID:         uuid.NewString(),
		Endpoint:   endpoint,
		Identifier: identifier,
		Params:     params,
		RequestURL: requestURL,
		FetchedAt:  time.Now().UTC(),
	}
	if json.Valid(payload) {
		evt.Payload = json.RawMessage(append([]byte(nil), payload...))
	} else {
		evt.PayloadText = string(payload)
	}
	return evt
}

// attributes are the routing attributes attached by message-queue publishers.
func (e Event) attributes() map[string]string {
	return map[string]string{
		"endpoint": e.Endpoint,
		"event_id": e.ID,
	}
}
