package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/services"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

// ChatHandler - REST-зеркало чатового протокола; основной путь
// идет через WS-шлюз
type ChatHandler struct {
	BaseHandler
	chatService services.ChatService
}

func NewChatHandler(base BaseHandler, chatService services.ChatService) *ChatHandler {
	return &ChatHandler{BaseHandler: base, chatService: chatService}
}

// SendMessage - POST /api/v1/chat/messages
func (h *ChatHandler) SendMessage(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var input dto.SendMessageInput
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.chatService.SendMessage(c.Request.Context(), userID, &input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// History - GET /api/v1/chat/history?recipient_id=...&limit=...&skip=...
func (h *ChatHandler) History(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var query dto.HistoryQuery
	if !h.BindAndValidateQuery(c, &query) {
		return
	}

	messages, err := h.chatService.History(c.Request.Context(), userID, &query)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// MarkRead - POST /api/v1/chat/read
func (h *ChatHandler) MarkRead(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var input dto.MarkReadInput
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	marked, err := h.chatService.MarkRead(c.Request.Context(), userID, &input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"marked": marked})
}

// UnreadCount - GET /api/v1/chat/unread-count
func (h *ChatHandler) UnreadCount(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	count, err := h.chatService.UnreadCount(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unread_count": count})
}
