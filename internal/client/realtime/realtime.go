// Package realtime emits chat events to the message broker. Every transport is
// fire-and-forget: Emit returns once the frame is handed off, delivery is not
// acknowledged and nothing is retried.
package realtime

import (
	"context"
	"errors"
	"fmt"

	"marketplace/internal/domain/event"
	"marketplace/pkg/config"
)

var (
	ErrClosed    = errors.New("realtime: channel closed")
	ErrQueueFull = errors.New("realtime: outbound queue full")
)

type Channel interface {
	Emit(ctx context.Context, name string, payload interface{}) error
	Close() error
}

// TokenSource supplies the session token used to authenticate the socket.
type TokenSource interface {
	Token() string
}

// New builds the transport selected by cfg.RealtimeTransport.
func New(cfg *config.Config, tokens TokenSource) (Channel, error) {
	switch cfg.RealtimeTransport {
	case "", "websocket":
		return NewWebSocket(cfg.SocketURL, tokens), nil
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisChannel), nil
	case "kafka":
		return NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("realtime: unknown transport %q", cfg.RealtimeTransport)
	}
}

// partitionKey keeps every event of one conversation on the same partition.
func partitionKey(payload interface{}) string {
	switch p := payload.(type) {
	case event.SendMessagePayload:
		return p.ConversationID
	case *event.SendMessagePayload:
		if p != nil {
			return p.ConversationID
		}
	}
	return ""
}
