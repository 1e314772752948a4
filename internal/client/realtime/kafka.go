package realtime

import (
	"context"
	"time"

	k "github.com/segmentio/kafka-go"

	"marketplace/internal/domain/event"
)

// Kafka writes events to a topic without waiting for broker acknowledgement.
type Kafka struct {
	w *k.Writer
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{
		w: &k.Writer{
			Addr:         k.TCP(brokers...),
			Topic:        topic,
			Balancer:     &k.Hash{},
			BatchTimeout: 50 * time.Millisecond,
			RequiredAcks: k.RequireNone,
			Async:        true,
		},
	}
}

func (kw *Kafka) Emit(ctx context.Context, name string, payload interface{}) error {
	frame, err := event.Encode(name, payload)
	if err != nil {
		return err
	}

	return kw.w.WriteMessages(ctx, k.Message{
		Key:   []byte(partitionKey(payload)),
		Value: frame,
		Time:  time.Now(),
	})
}

func (kw *Kafka) Close() error { return kw.w.Close() }
