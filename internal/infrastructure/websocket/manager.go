package websocket

import (
	"context"
	"sync"

	"github.com/gorilla/websocket"

	"marketplace/internal/infrastructure/metrics"
	"marketplace/pkg/logger"
)

// Client represents a WebSocket connection client
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte

	// closed is set once Send is closed; guarded by Manager.mutex.
	closed bool
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, 256),
	}
}

// Manager tracks live connections per user. A user may hold several
// connections, e.g. a phone and a tablet.
type Manager struct {
	clients    map[string]map[*Client]struct{}
	Register   chan *Client
	Unregister chan *Client
	relay      Relay
	done       chan struct{}
	mutex      sync.RWMutex
}

func NewManager(relay Relay) *Manager {
	return &Manager{
		clients:    make(map[string]map[*Client]struct{}),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		relay:      relay,
		done:       make(chan struct{}),
	}
}

// Start runs the manager's main loop in a goroutine
func (m *Manager) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case client := <-m.Register:
				m.mutex.Lock()
				if m.clients[client.UserID] == nil {
					m.clients[client.UserID] = make(map[*Client]struct{})
				}
				m.clients[client.UserID][client] = struct{}{}
				m.mutex.Unlock()
				metrics.ActiveConnections.Inc()
				logger.Info("Client registered: %s", client.UserID)

			case client := <-m.Unregister:
				m.remove(client)
				logger.Info("Client unregistered: %s", client.UserID)

			case <-ctx.Done():
				close(m.done)
				m.mutex.Lock()
				for userID, conns := range m.clients {
					for client := range conns {
						closeSend(client)
					}
					delete(m.clients, userID)
				}
				m.mutex.Unlock()
				return
			}
		}
	}()
}

// Add hands a new connection to the manager. It reports false once the manager
// has stopped.
func (m *Manager) Add(client *Client) bool {
	select {
	case m.Register <- client:
		return true
	case <-m.done:
		return false
	}
}

// Drop removes a connection; it never blocks after the manager has stopped.
func (m *Manager) Drop(client *Client) {
	select {
	case m.Unregister <- client:
	case <-m.done:
	}
}

func (m *Manager) remove(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	conns, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := conns[client]; !ok {
		return
	}
	delete(conns, client)
	closeSend(client)
	metrics.ActiveConnections.Dec()
	if len(conns) == 0 {
		delete(m.clients, client.UserID)
	}
}

// SendToUser queues message on every connection of userID and reports whether
// at least one connection accepted it. Slow connections are skipped.
func (m *Manager) SendToUser(userID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	delivered := false
	for client := range m.clients[userID] {
		if queue(client, message) {
			delivered = true
		} else {
			logger.Warn("WebSocket: send buffer full for %s, dropping frame", userID)
		}
	}
	return delivered
}

// queue hands message to client without blocking. The caller holds m.mutex.
func queue(client *Client, message []byte) bool {
	if client.closed {
		return false
	}
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}

// closeSend closes the client's outbound channel once. The caller holds m.mutex
// for writing.
func closeSend(client *Client) {
	if !client.closed {
		client.closed = true
		close(client.Send)
	}
}

func (m *Manager) IsOnline(userID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID]) > 0
}
