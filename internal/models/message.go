package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message - сообщение чата. Неизменяемо после создания, кроме флага IsRead.
// IdempotencyKey позволяет схлопнуть повторную отправку (reconnect retry)
// в одну запись.
type Message struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	SenderID    string      `gorm:"not null;index:idx_messages_pair,priority:1;index:idx_messages_idem,priority:1" json:"sender_id"`
	RecipientID string      `gorm:"not null;index:idx_messages_pair,priority:2;index:idx_messages_idem,priority:2" json:"recipient_id"`
	Content     string      `gorm:"type:text;not null" json:"content"`
	Kind        MessageKind `gorm:"type:varchar(20);default:'text'" json:"kind"`
	RequestID   *string     `gorm:"index" json:"request_id,omitempty"`
	OfferID     *string     `gorm:"index" json:"offer_id,omitempty"`
	IsRead      bool        `gorm:"default:false" json:"is_read"`

	IdempotencyKey *string   `gorm:"index:idx_messages_idem,priority:3" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
