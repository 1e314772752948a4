package realtime

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/internal/domain/event"
	"marketplace/pkg/logger"
)

const publishTimeout = 2 * time.Second

// Redis publishes events on a pub/sub channel for a gateway to fan out.
// Emit only queues the frame; a background loop does the publishing.
type Redis struct {
	client  *redis.Client
	channel string

	outbox    chan []byte
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

func NewRedis(addr, channel string) *Redis {
	r := &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:                  addr,
			DB:                    0,
			ReadTimeout:           publishTimeout,
			WriteTimeout:          publishTimeout,
			ContextTimeoutEnabled: true,
		}),
		channel: channel,
		outbox:  make(chan []byte, outboxSize),
		done:    make(chan struct{}),
	}

	r.wg.Add(1)
	go r.publishLoop()
	return r
}

func (r *Redis) Emit(ctx context.Context, name string, payload interface{}) error {
	frame, err := event.Encode(name, payload)
	if err != nil {
		return err
	}

	select {
	case <-r.done:
		return ErrClosed
	default:
	}

	select {
	case r.outbox <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (r *Redis) publishLoop() {
	defer r.wg.Done()

	for {
		select {
		case frame := <-r.outbox:
			ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
			if err := r.client.Publish(ctx, r.channel, frame).Err(); err != nil {
				logger.Warn("realtime: dropping frame, publish failed: %v", err)
			}
			cancel()
		case <-r.done:
			return
		}
	}
}

func (r *Redis) Close() error {
	var err error
	r.closeOnce.Do(func() {
		close(r.done)
		r.wg.Wait()
		err = r.client.Close()
	})
	return err
}
