package dto

import (
	"time"

	"donorlink/internal/models"
)

// SendMessageInput - входные данные send_message (WS verb и REST-зеркало).
// SenderID проставляется сервером из аутентифицированного соединения.
type SendMessageInput struct {
	RecipientID    string  `json:"recipient_id" binding:"required" validate:"required,uuid"`
	Content        string  `json:"content" binding:"required" validate:"required"`
	RequestID      *string `json:"request_id,omitempty" validate:"omitempty,uuid"`
	OfferID        *string `json:"offer_id,omitempty" validate:"omitempty,uuid"`
	Kind           string  `json:"kind,omitempty" validate:"omitempty,is-message-kind"`
	IdempotencyKey *string `json:"idempotency_key,omitempty" validate:"omitempty,max=128"`
}

// HistoryQuery - параметры load_history
type HistoryQuery struct {
	RecipientID string `json:"recipient_id" form:"recipient_id" binding:"required" validate:"required,uuid"`
	Limit       int    `json:"limit" form:"limit" validate:"omitempty,min=0,max=200"`
	Skip        int    `json:"skip" form:"skip" validate:"omitempty,min=0"`
}

// MarkReadInput - параметры mark_read
type MarkReadInput struct {
	MessageIDs []string `json:"message_ids" binding:"required" validate:"required,min=1"`
}

// MessageResponse - сообщение, гидрированное данными отправителя
// на момент вызова (имя и аватар не хранятся на сообщении).
type MessageResponse struct {
	ID           string             `json:"id"`
	SenderID     string             `json:"sender_id"`
	RecipientID  string             `json:"recipient_id"`
	Content      string             `json:"content"`
	Kind         models.MessageKind `json:"kind"`
	RequestID    *string            `json:"request_id,omitempty"`
	OfferID      *string            `json:"offer_id,omitempty"`
	IsRead       bool               `json:"is_read"`
	SenderName   string             `json:"sender_name"`
	SenderAvatar string             `json:"sender_avatar,omitempty"`
	Duplicate    bool               `json:"duplicate,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}
