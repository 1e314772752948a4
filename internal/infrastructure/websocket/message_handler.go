package websocket

import (
	"context"
	"encoding/json"
	"errors"

	"marketplace/internal/domain/event"
	"marketplace/internal/infrastructure/metrics"
	apperrors "marketplace/pkg/errors"
	"marketplace/pkg/logger"
)

// Relay delivers a send_message event on behalf of senderID.
type Relay interface {
	RelayMessage(ctx context.Context, senderID string, payload event.SendMessagePayload) (bool, error)
}

// HandleClientMessage processes one inbound frame.
func (m *Manager) HandleClientMessage(client *Client, raw []byte) {
	var envelope event.Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		logger.Warn("WebSocket: Failed to unmarshal message from client %s: %v", client.UserID, err)
		m.sendError(client, "Invalid message format")
		return
	}

	switch envelope.Event {
	case event.SendMessage:
		m.handleSendMessage(client, envelope.Data)
	default:
		logger.Warn("WebSocket: Unknown event '%s' from client %s", envelope.Event, client.UserID)
		m.sendError(client, "Unknown event")
	}
}

func (m *Manager) handleSendMessage(client *Client, data json.RawMessage) {
	var payload event.SendMessagePayload
	if err := json.Unmarshal(data, &payload); err != nil {
		metrics.RelayedMessages.WithLabelValues("invalid").Inc()
		m.sendError(client, "Invalid send_message format")
		return
	}

	if m.relay == nil {
		m.sendError(client, "Messaging unavailable")
		return
	}

	delivered, err := m.relay.RelayMessage(context.Background(), client.UserID, payload)
	if err != nil {
		metrics.RelayedMessages.WithLabelValues("rejected").Inc()
		message := "Failed to send message"
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) {
			message = appErr.Message
		}
		logger.Warn("WebSocket: send_message from %s rejected: %v", client.UserID, err)
		m.sendError(client, message)
		return
	}

	if delivered {
		metrics.RelayedMessages.WithLabelValues("delivered").Inc()
	} else {
		metrics.RelayedMessages.WithLabelValues("offline").Inc()
	}
}

func (m *Manager) sendError(client *Client, message string) {
	frame, err := event.Encode(event.Error, event.ErrorPayload{Message: message})
	if err != nil {
		return
	}

	m.mutex.RLock()
	defer m.mutex.RUnlock()
	queue(client, frame)
}
