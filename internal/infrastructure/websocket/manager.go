package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"staynest/internal/infrastructure/metrics"
	"staynest/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one open socket. A user may have several, one per tab or device.
type Client struct {
	UserID string
	Conn   *websocket.Conn
	Send   chan []byte
}

func NewClient(userID string, conn *websocket.Conn) *Client {
	return &Client{
		UserID: userID,
		Conn:   conn,
		Send:   make(chan []byte, sendBuffer),
	}
}

// Manager tracks open sockets per user and pushes notifications to them.
type Manager struct {
	clients map[string]map[*Client]struct{}
	mutex   sync.RWMutex
}

func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]map[*Client]struct{}),
	}
}

func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	set, ok := m.clients[client.UserID]
	if !ok {
		set = make(map[*Client]struct{})
		m.clients[client.UserID] = set
	}
	set[client] = struct{}{}
	metrics.WebsocketConnections.Inc()
	logger.Get().Debug("websocket client registered", zap.String("user_id", client.UserID), zap.Int("connections", len(set)))
}

func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.removeLocked(client)
}

func (m *Manager) removeLocked(client *Client) {
	set, ok := m.clients[client.UserID]
	if !ok {
		return
	}
	if _, ok := set[client]; !ok {
		return
	}
	delete(set, client)
	if len(set) == 0 {
		delete(m.clients, client.UserID)
	}
	close(client.Send)
	metrics.WebsocketConnections.Dec()
}

func (m *Manager) ConnectionCount(userID string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients[userID])
}

// Push sends payload as JSON to every socket the user has open and returns
// how many accepted it. A client whose buffer is full is dropped.
func (m *Manager) Push(userID string, payload interface{}) int {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Get().Warn("websocket payload not encodable", zap.String("user_id", userID), zap.Error(err))
		return 0
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()

	delivered := 0
	for client := range m.clients[userID] {
		select {
		case client.Send <- data:
			delivered++
		default:
			logger.Get().Warn("websocket send buffer full, dropping client", zap.String("user_id", userID))
			m.removeLocked(client)
		}
	}
	return delivered
}

// ReadPump keeps the connection alive and answers client messages. It
// unregisters the client when the socket closes.
func (c *Client) ReadPump(m *Manager) {
	defer func() {
		m.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Get().Warn("websocket closed unexpectedly", zap.String("user_id", c.UserID), zap.Error(err))
			}
			return
		}
		m.HandleClientMessage(c, message)
	}
}

// WritePump drains Send to the socket and pings the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
