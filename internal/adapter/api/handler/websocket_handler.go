package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"staynest/internal/infrastructure/websocket"
	"staynest/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	manager *websocket.Manager
}

func NewWebSocketHandler(manager *websocket.Manager) *WebSocketHandler {
	return &WebSocketHandler{
		manager: manager,
	}
}

// HandleConnection upgrades an authenticated request and streams the user's
// notifications until the socket closes.
func (h *WebSocketHandler) HandleConnection(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		logger.FromEcho(c).Warn("websocket upgrade failed", zap.Error(err))
		return nil
	}

	client := websocket.NewClient(userID, conn)
	h.manager.Register(client)

	go client.WritePump()
	client.ReadPump(h.manager)
	return nil
}
