// Package event holds the realtime wire format shared by the client emitter
// and the API relay.
package event

import (
	"encoding/json"
	"time"

	"marketplace/internal/domain/entity"
)

const (
	SendMessage = "send_message"
	ChatMessage = "chat:message"
	Error       = "error"
)

// Envelope is one realtime frame.
type Envelope struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// SendMessagePayload is the body of a send_message event.
type SendMessagePayload struct {
	Message        entity.ChatMessage `json:"message" validate:"required"`
	ConversationID string             `json:"conversationId" validate:"required"`
	To             string             `json:"to" validate:"required"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Encode wraps data into an envelope and serializes it.
func Encode(name string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Event:     name,
		Data:      raw,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
