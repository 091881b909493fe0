package repositories

import (
	"errors"
	"time"

	"donorlink/internal/models"

	"gorm.io/gorm"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepository interface {
	Create(message *models.Message) error
	FindByIdempotencyKey(senderID, recipientID, key string) (*models.Message, error)
	// History возвращает сообщения между двумя пользователями
	// по возрастанию времени создания.
	History(userA, userB string, limit, offset int) ([]models.Message, error)
	// MarkRead помечает прочитанными только сообщения, адресованные recipientID.
	// Чужие id молча пропускаются. Возвращает число обновленных строк.
	MarkRead(recipientID string, messageIDs []string) (int64, error)
	UnreadCount(recipientID string) (int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	return r.db.Create(message).Error
}

func (r *messageRepository) FindByIdempotencyKey(senderID, recipientID, key string) (*models.Message, error) {
	var message models.Message
	err := r.db.
		Where("sender_id = ? AND recipient_id = ? AND idempotency_key = ?", senderID, recipientID, key).
		First(&message).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) History(userA, userB string, limit, offset int) ([]models.Message, error) {
	var messages []models.Message
	err := r.db.
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)",
			userA, userB, userB, userA).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&messages).Error
	return messages, err
}

func (r *messageRepository) MarkRead(recipientID string, messageIDs []string) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}
	res := r.db.Model(&models.Message{}).
		Where("id IN ? AND recipient_id = ? AND is_read = false", messageIDs, recipientID).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *messageRepository) UnreadCount(recipientID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.Message{}).
		Where("recipient_id = ? AND is_read = false", recipientID).
		Count(&count).Error
	return count, err
}
