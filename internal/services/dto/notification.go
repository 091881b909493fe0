package dto

import (
	"time"

	"donorlink/internal/models"
)

// DispatchInput - вход диспетчера уведомлений
type DispatchInput struct {
	UserID      string // получатель
	SenderID    *string
	Type        models.NotificationType
	Title       string
	Body        string
	ReferenceID string // Message/Offer/прочая сущность
	Data        map[string]interface{}
}

type NotificationResponse struct {
	ID          string                  `json:"id"`
	UserID      string                  `json:"user_id"`
	SenderID    *string                 `json:"sender_id,omitempty"`
	Type        models.NotificationType `json:"type"`
	Title       string                  `json:"title"`
	Body        string                  `json:"body,omitempty"`
	ReferenceID string                  `json:"reference_id,omitempty"`
	Data        map[string]interface{}  `json:"data,omitempty"`
	IsRead      bool                    `json:"is_read"`
	ReadAt      *time.Time              `json:"read_at,omitempty"`
	CreatedAt   time.Time               `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	Page          int                     `json:"page"`
	PageSize      int                     `json:"page_size"`
}
