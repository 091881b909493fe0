package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification - доставленное (или ожидающее прочтения) уведомление.
// Мягкий инвариант уникальности: в пределах окна дедупликации не должно
// быть двух записей с одинаковыми (UserID, Type, ReferenceID).
type Notification struct {
	BaseModel
	UserID      string           `gorm:"not null;index;index:idx_notifications_dedupe,priority:1" json:"user_id"`
	SenderID    *string          `json:"sender_id,omitempty"`
	Type        NotificationType `gorm:"type:varchar(30);not null;index:idx_notifications_dedupe,priority:2" json:"type"`
	Title       string           `gorm:"not null" json:"title"`
	Body        string           `json:"body"`
	ReferenceID string           `gorm:"index:idx_notifications_dedupe,priority:3" json:"reference_id"`
	Data        datatypes.JSON   `gorm:"type:jsonb" json:"data,omitempty"` // {"offer_id": "...", "request_id": "..."}
	IsRead      bool             `gorm:"default:false" json:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty"`
}
