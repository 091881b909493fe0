package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"donorlink/internal/auth"
	"donorlink/internal/logger"
	"donorlink/internal/services"
	"donorlink/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// браузерный клиент ходит с другого origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler терминирует WS-соединения шлюза
type WSHandler struct {
	manager     *ws.Manager
	chatService services.ChatService
}

func NewWSHandler(manager *ws.Manager, chatService services.ChatService) *WSHandler {
	return &WSHandler{manager: manager, chatService: chatService}
}

// Serve - GET /ws?token=...
// Токен проверяется до апгрейда: браузерный WebSocket API не умеет
// ставить Authorization-заголовок.
func (h *WSHandler) Serve(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token query parameter required"})
		return
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", "error", err)
		return
	}

	client := ws.NewClient(claims.UserID, conn, h.manager, h.chatService)
	go client.Serve()
}
