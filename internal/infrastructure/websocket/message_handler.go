package websocket

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"staynest/pkg/logger"
)

const (
	MessageTypePing  = "ping"
	MessageTypePong  = "pong"
	MessageTypeError = "error"
)

type WSMessage struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// HandleClientMessage answers the few messages clients may send. The socket
// is otherwise server-to-client only.
func (m *Manager) HandleClientMessage(client *Client, messageBytes []byte) {
	var msg WSMessage
	if err := json.Unmarshal(messageBytes, &msg); err != nil {
		m.sendToClient(client, errorMessage("Invalid message format"))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		m.sendToClient(client, WSMessage{
			Type:      MessageTypePong,
			Data:      map[string]string{"status": "alive"},
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	default:
		m.sendToClient(client, errorMessage("Unknown message type"))
	}
}

func errorMessage(text string) WSMessage {
	return WSMessage{
		Type:      MessageTypeError,
		Data:      map[string]string{"error": text},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

func (m *Manager) sendToClient(client *Client, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		return
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client.UserID][client]; !ok {
		return
	}
	select {
	case client.Send <- data:
	default:
		logger.Get().Warn("websocket send buffer full, dropping client", zap.String("user_id", client.UserID))
		m.removeLocked(client)
	}
}
