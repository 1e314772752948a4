package realtime

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"marketplace/internal/domain/event"
	"marketplace/pkg/logger"
)

const (
	writeWait   = 10 * time.Second
	outboxSize  = 64
	dialTimeout = 10 * time.Second
)

// WebSocket is the socket transport to the API relay. Frames emitted before
// Connect are buffered and flushed once the socket is up.
type WebSocket struct {
	url    string
	tokens TokenSource
	dialer *websocket.Dialer

	outbox chan []byte
	done   chan struct{}

	mu        sync.Mutex
	conn      *websocket.Conn
	handler   func(event.Envelope)
	closed    bool
	closeOnce sync.Once
}

func NewWebSocket(rawURL string, tokens TokenSource) *WebSocket {
	return &WebSocket{
		url:    rawURL,
		tokens: tokens,
		dialer: &websocket.Dialer{HandshakeTimeout: dialTimeout},
		outbox: make(chan []byte, outboxSize),
		done:   make(chan struct{}),
	}
}

// OnEvent sets the callback for inbound frames. It runs on the read goroutine.
func (w *WebSocket) OnEvent(fn func(event.Envelope)) {
	w.mu.Lock()
	w.handler = fn
	w.mu.Unlock()
}

func (w *WebSocket) Connect(ctx context.Context) error {
	select {
	case <-w.done:
		return ErrClosed
	default:
	}

	target, err := url.Parse(w.url)
	if err != nil {
		return err
	}
	if w.tokens != nil {
		if token := w.tokens.Token(); token != "" {
			q := target.Query()
			q.Set("token", token)
			target.RawQuery = q.Encode()
		}
	}

	conn, _, err := w.dialer.DialContext(ctx, target.String(), nil)
	if err != nil {
		return err
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		conn.Close()
		return ErrClosed
	}
	w.conn = conn
	w.mu.Unlock()

	go w.writeLoop(conn)
	go w.readLoop(conn)
	return nil
}

func (w *WebSocket) Emit(ctx context.Context, name string, payload interface{}) error {
	frame, err := event.Encode(name, payload)
	if err != nil {
		return err
	}

	select {
	case <-w.done:
		return ErrClosed
	default:
	}

	select {
	case w.outbox <- frame:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (w *WebSocket) writeLoop(conn *websocket.Conn) {
	for {
		select {
		case frame := <-w.outbox:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				logger.Warn("realtime: dropping frame, write failed: %v", err)
				w.detach(conn)
				conn.Close()
				return
			}
		case <-w.done:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		}
	}
}

func (w *WebSocket) readLoop(conn *websocket.Conn) {
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("realtime: socket closed: %v", err)
			}
			w.detach(conn)
			return
		}

		var envelope event.Envelope
		if err := json.Unmarshal(raw, &envelope); err != nil {
			logger.Warn("realtime: ignoring malformed frame: %v", err)
			continue
		}

		w.mu.Lock()
		handler := w.handler
		w.mu.Unlock()
		if handler != nil {
			handler(envelope)
		}
	}
}

// detach forgets conn if it is still the live connection.
func (w *WebSocket) detach(conn *websocket.Conn) {
	w.mu.Lock()
	if w.conn == conn {
		w.conn = nil
	}
	w.mu.Unlock()
}

func (w *WebSocket) Connected() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn != nil
}

func (w *WebSocket) Close() error {
	w.closeOnce.Do(func() {
		w.mu.Lock()
		w.closed = true
		w.mu.Unlock()
		close(w.done)
	})
	return nil
}
