package ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"donorlink/internal/logger"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
)

// ChatService - срез чатового сервиса, нужный соединению
type ChatService interface {
	SendMessage(ctx context.Context, senderID string, input *dto.SendMessageInput) (*dto.MessageResponse, error)
	History(ctx context.Context, userID string, query *dto.HistoryQuery) ([]*dto.MessageResponse, error)
	MarkRead(ctx context.Context, userID string, input *dto.MarkReadInput) (int64, error)
	ForwardTyping(userID, recipientID string)
}

// IncomingWSMessage - конверт входящего сообщения от клиента
type IncomingWSMessage struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type typingPayload struct {
	RecipientID string `json:"recipient_id"`
}

// Client - одно WS-соединение аутентифицированного пользователя
type Client struct {
	UserID string
	Send   chan Event

	conn    *websocket.Conn
	manager *Manager
	chat    ChatService
}

func NewClient(userID string, conn *websocket.Conn, manager *Manager, chat ChatService) *Client {
	return &Client{
		UserID:  userID,
		Send:    make(chan Event, sendBufferSize),
		conn:    conn,
		manager: manager,
		chat:    chat,
	}
}

// Serve регистрирует соединение и запускает насосы чтения и записи.
// Возвращается после закрытия соединения.
func (c *Client) Serve() {
	c.manager.Register(c)

	go c.writePump()
	c.readPump()
}

// readPump читает входящие сообщения и раздает их по action.
// Выход из цикла снимает соединение с учета.
func (c *Client) readPump() {
	defer func() {
		c.manager.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("ws unexpected close", "user_id", c.UserID, "error", err)
			}
			return
		}

		var msg IncomingWSMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}

		c.dispatch(&msg)
	}
}

// dispatch выполняет один глагол протокола
func (c *Client) dispatch(msg *IncomingWSMessage) {
	ctx := logger.WithUserID(context.Background(), c.UserID)

	switch msg.Action {
	case "send_message":
		var input dto.SendMessageInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError("malformed send_message payload")
			return
		}
		if _, err := c.chat.SendMessage(ctx, c.UserID, &input); err != nil {
			c.sendServiceError(err)
		}

	case "load_history":
		var query dto.HistoryQuery
		if err := json.Unmarshal(msg.Data, &query); err != nil {
			c.sendError("malformed load_history payload")
			return
		}
		messages, err := c.chat.History(ctx, c.UserID, &query)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.trySend(Event{Type: "history", Data: messages})

	case "mark_read":
		var input dto.MarkReadInput
		if err := json.Unmarshal(msg.Data, &input); err != nil {
			c.sendError("malformed mark_read payload")
			return
		}
		marked, err := c.chat.MarkRead(ctx, c.UserID, &input)
		if err != nil {
			c.sendServiceError(err)
			return
		}
		c.trySend(Event{Type: "read_marked", Data: map[string]interface{}{"marked": marked}})

	case "typing":
		var payload typingPayload
		if err := json.Unmarshal(msg.Data, &payload); err != nil {
			return // typing не подтверждается и не жалуется
		}
		c.chat.ForwardTyping(c.UserID, payload.RecipientID)

	default:
		c.sendError("unknown action: " + msg.Action)
	}
}

// writePump сериализует исходящие события в соединение.
// Единственный писатель в conn.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.Send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) trySend(event Event) {
	select {
	case c.Send <- event:
	default:
	}
}

func (c *Client) sendError(message string) {
	c.trySend(Event{Type: "error", Data: map[string]interface{}{"message": message}})
}

// sendServiceError переводит ошибку сервиса в событие error,
// не раскрывая внутренних деталей
func (c *Client) sendServiceError(err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		payload := map[string]interface{}{
			"code":    appErr.Code,
			"message": appErr.Message,
		}
		if appErr.Details != nil {
			payload["details"] = appErr.Details
		}
		c.trySend(Event{Type: "error", Data: payload})
		return
	}
	logger.Error("ws internal error", "user_id", c.UserID, "error", err)
	c.sendError("internal error")
}
