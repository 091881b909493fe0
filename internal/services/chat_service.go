package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"donorlink/internal/logger"
	"donorlink/internal/models"
	"donorlink/internal/repositories"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

const notificationBodyLimit = 140

// ChatService - личные сообщения: отправка с идемпотентным
// схлопыванием, история, отметка прочтения, ретрансляция typing
type ChatService interface {
	SendMessage(ctx context.Context, senderID string, input *dto.SendMessageInput) (*dto.MessageResponse, error)
	History(ctx context.Context, userID string, query *dto.HistoryQuery) ([]*dto.MessageResponse, error)
	MarkRead(ctx context.Context, userID string, input *dto.MarkReadInput) (int64, error)
	ForwardTyping(userID, recipientID string)
	UnreadCount(userID string) (int64, error)
}

type chatService struct {
	messageRepo  repositories.MessageRepository
	userRepo     repositories.UserRepository
	notifier     NotificationService
	pusher       RealtimePusher
	maxLen       int
	historyLimit int
}

func NewChatService(
	messageRepo repositories.MessageRepository,
	userRepo repositories.UserRepository,
	notifier NotificationService,
	pusher RealtimePusher,
	maxLen int,
	historyLimit int,
) ChatService {
	return &chatService{
		messageRepo:  messageRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		pusher:       pusher,
		maxLen:       maxLen,
		historyLimit: historyLimit,
	}
}

// SendMessage валидирует, схлопывает повтор по idempotency key,
// сохраняет сообщение и раздает его по соединениям: message_received
// получателю, message_sent_ack на все соединения отправителя.
func (s *chatService) SendMessage(ctx context.Context, senderID string, input *dto.SendMessageInput) (*dto.MessageResponse, error) {
	if _, err := uuid.Parse(input.RecipientID); err != nil {
		return nil, apperrors.NewBadRequestError("recipient_id must be a valid uuid")
	}
	if input.RecipientID == senderID {
		return nil, apperrors.ErrSelfMessage
	}

	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, apperrors.NewBadRequestError("content must not be empty")
	}
	if utf8.RuneCountInString(content) > s.maxLen {
		return nil, apperrors.NewBadRequestError("content exceeds maximum length")
	}

	kind := models.MessageKind(input.Kind)
	if kind == "" {
		kind = models.MessageKindText
	}
	if !kind.IsValid() {
		return nil, apperrors.NewBadRequestError("unknown message kind")
	}

	exists, err := s.userRepo.ExistsByID(input.RecipientID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrRecipientNotFound
	}

	sender, err := s.userRepo.FindByID(senderID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	// Повтор с тем же ключом (переподключение, ретрай клиента)
	// возвращает уже записанное сообщение; получателю повторно
	// не доставляется, отправителю уходит только ack.
	if input.IdempotencyKey != nil && *input.IdempotencyKey != "" {
		existing, err := s.messageRepo.FindByIdempotencyKey(senderID, input.RecipientID, *input.IdempotencyKey)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		if existing != nil {
			resp := newMessageResponse(existing, sender)
			resp.Duplicate = true
			s.pusher.SendToUser(senderID, "message_sent_ack", resp)
			return resp, nil
		}
	}

	message := &models.Message{
		SenderID:       senderID,
		RecipientID:    input.RecipientID,
		Content:        content,
		Kind:           kind,
		RequestID:      input.RequestID,
		OfferID:        input.OfferID,
		IdempotencyKey: input.IdempotencyKey,
	}
	if err := s.messageRepo.Create(message); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := newMessageResponse(message, sender)
	s.pusher.SendToUser(input.RecipientID, "message_received", resp)
	s.pusher.SendToUser(senderID, "message_sent_ack", resp)

	body := content
	if utf8.RuneCountInString(body) > notificationBodyLimit {
		body = string([]rune(body)[:notificationBodyLimit])
	}
	referenceID := message.ID
	if _, err := s.notifier.Dispatch(ctx, &dto.DispatchInput{
		UserID:      input.RecipientID,
		SenderID:    &message.SenderID,
		Type:        models.NotificationTypeForMessageKind(kind),
		Title:       sender.DisplayName,
		Body:        body,
		ReferenceID: referenceID,
		Data:        map[string]interface{}{"message_id": message.ID},
	}); err != nil {
		// уведомление вторично, сообщение уже записано и доставлено
		logger.CtxWarn(ctx, "message notification dispatch failed", "message_id", message.ID, "error", err)
	}

	return resp, nil
}

// History возвращает переписку двух пользователей по возрастанию
// времени, гидрируя каждое сообщение данными отправителя на момент
// вызова. Неизвестный собеседник дает пустую историю, не ошибку.
func (s *chatService) History(ctx context.Context, userID string, query *dto.HistoryQuery) ([]*dto.MessageResponse, error) {
	if _, err := uuid.Parse(query.RecipientID); err != nil {
		return nil, apperrors.NewBadRequestError("recipient_id must be a valid uuid")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > s.historyLimit {
		limit = s.historyLimit
	}
	skip := query.Skip
	if skip < 0 {
		skip = 0
	}

	messages, err := s.messageRepo.History(userID, query.RecipientID, limit, skip)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	senders := make(map[string]*models.User, 2)
	responses := make([]*dto.MessageResponse, 0, len(messages))
	for i := range messages {
		msg := &messages[i]
		sender, ok := senders[msg.SenderID]
		if !ok {
			sender, err = s.userRepo.FindByID(msg.SenderID)
			if err != nil {
				if apperrors.Is(err, repositories.ErrUserNotFound) {
					sender = &models.User{DisplayName: "deleted user"}
				} else {
					return nil, apperrors.InternalError(err)
				}
			}
			senders[msg.SenderID] = sender
		}
		responses = append(responses, newMessageResponse(msg, sender))
	}
	return responses, nil
}

// MarkRead выставляет read на сообщениях, адресованных вызывающему.
// Чужие и несуществующие id молча пропускаются.
func (s *chatService) MarkRead(ctx context.Context, userID string, input *dto.MarkReadInput) (int64, error) {
	if len(input.MessageIDs) == 0 {
		return 0, nil
	}
	marked, err := s.messageRepo.MarkRead(userID, input.MessageIDs)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return marked, nil
}

// ForwardTyping ретранслирует индикатор набора. Никогда не ошибается:
// невалидный или собственный адресат просто отбрасывается.
func (s *chatService) ForwardTyping(userID, recipientID string) {
	if recipientID == "" || recipientID == userID {
		return
	}
	if _, err := uuid.Parse(recipientID); err != nil {
		return
	}
	s.pusher.SendToUser(recipientID, "typing", map[string]interface{}{"sender_id": userID})
}

func (s *chatService) UnreadCount(userID string) (int64, error) {
	count, err := s.messageRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

func newMessageResponse(message *models.Message, sender *models.User) *dto.MessageResponse {
	return &dto.MessageResponse{
		ID:           message.ID,
		SenderID:     message.SenderID,
		RecipientID:  message.RecipientID,
		Content:      message.Content,
		Kind:         message.Kind,
		RequestID:    message.RequestID,
		OfferID:      message.OfferID,
		IsRead:       message.IsRead,
		SenderName:   sender.DisplayName,
		SenderAvatar: sender.AvatarURL,
		CreatedAt:    message.CreatedAt,
	}
}
