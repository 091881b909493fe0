package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"

	"donorlink/internal/logger"
	"donorlink/internal/models"
	"donorlink/internal/repositories"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

// NotificationService - диспетчер уведомлений: дедупликация в окне,
// запись в хранилище и best-effort push на живые соединения
type NotificationService interface {
	Dispatch(ctx context.Context, input *dto.DispatchInput) (*dto.NotificationResponse, error)
	List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error)
	UnreadCount(userID string) (int64, error)
	MarkRead(userID, notificationID string) error
	MarkAllRead(userID string) error
}

type notificationService struct {
	notificationRepo repositories.NotificationRepository
	userRepo         repositories.UserRepository
	pusher           RealtimePusher
	marker           DedupeMarker // nil - redis не сконфигурирован
	window           time.Duration
}

func NewNotificationService(
	notificationRepo repositories.NotificationRepository,
	userRepo repositories.UserRepository,
	pusher RealtimePusher,
	marker DedupeMarker,
	window time.Duration,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		pusher:           pusher,
		marker:           marker,
		window:           window,
	}
}

// Dispatch проводит уведомление через окно дедупликации по тройке
// (получатель, тип, reference). Дубликат в окне возвращает уже
// существующую запись и не пушит повторно.
func (s *notificationService) Dispatch(ctx context.Context, input *dto.DispatchInput) (*dto.NotificationResponse, error) {
	if !input.Type.IsValid() {
		return nil, apperrors.NewBadRequestError("unknown notification type")
	}

	exists, err := s.userRepo.ExistsByID(input.UserID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	// Жесткий барьер: redis-маркер живет ровно окно дедупликации.
	// Недоступный redis деградирует до мягкой проверки по БД.
	if s.marker != nil {
		key := s.marker.Key(input.UserID, string(input.Type), input.ReferenceID)
		acquired, err := s.marker.Acquire(ctx, key, s.window)
		if err != nil {
			logger.CtxWarn(ctx, "dedupe marker unavailable, falling back to store check", "error", err)
		} else if !acquired {
			existing, err := s.findExisting(input)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return existing, nil
			}
			// маркер захвачен прошлой попыткой, но записи нет
			// (вставка упала) - создаем заново через мягкий путь
		}
	}

	// Мягкий барьер: check-then-create, гонка двух конкурентных
	// Dispatch допускает редкий дубль
	since := time.Now().Add(-s.window)
	recent, err := s.notificationRepo.FindRecent(input.UserID, input.Type, input.ReferenceID, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if recent != nil {
		return newNotificationResponse(recent), nil
	}

	notification := &models.Notification{
		UserID:      input.UserID,
		SenderID:    input.SenderID,
		Type:        input.Type,
		Title:       input.Title,
		Body:        input.Body,
		ReferenceID: input.ReferenceID,
	}
	if len(input.Data) > 0 {
		raw, err := json.Marshal(input.Data)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		notification.Data = datatypes.JSON(raw)
	}

	if err := s.notificationRepo.Create(notification); err != nil {
		return nil, apperrors.InternalError(err)
	}

	resp := newNotificationResponse(notification)
	s.pusher.SendToUser(input.UserID, "notification", resp)

	logger.CtxDebug(ctx, "notification dispatched",
		"recipient_id", input.UserID, "type", input.Type, "reference_id", input.ReferenceID,
		"online", s.pusher.IsOnline(input.UserID))

	return resp, nil
}

// findExisting возвращает запись, ради которой маркер уже был захвачен.
// Записи может не быть (маркер захвачен, но вставка упала) - тогда
// дубль трактуется как новое уведомление без повторного захвата.
func (s *notificationService) findExisting(input *dto.DispatchInput) (*dto.NotificationResponse, error) {
	since := time.Now().Add(-s.window)
	recent, err := s.notificationRepo.FindRecent(input.UserID, input.Type, input.ReferenceID, since)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if recent == nil {
		return nil, nil
	}
	return newNotificationResponse(recent), nil
}

func (s *notificationService) List(userID string, criteria repositories.NotificationCriteria) (*dto.NotificationListResponse, error) {
	notifications, total, err := s.notificationRepo.ListByUser(userID, criteria)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	items := make([]*dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		items = append(items, newNotificationResponse(&notifications[i]))
	}

	page := criteria.Page
	if page < 1 {
		page = 1
	}
	pageSize := criteria.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	return &dto.NotificationListResponse{
		Notifications: items,
		Total:         total,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *notificationService) UnreadCount(userID string) (int64, error) {
	count, err := s.notificationRepo.UnreadCount(userID)
	if err != nil {
		return 0, apperrors.InternalError(err)
	}
	return count, nil
}

// MarkRead помечает уведомление прочитанным; чужое уведомление - 403
func (s *notificationService) MarkRead(userID, notificationID string) error {
	notification, err := s.notificationRepo.FindByID(notificationID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotificationNotFound) {
			return apperrors.ErrNotificationNotFound
		}
		return apperrors.InternalError(err)
	}
	if notification.UserID != userID {
		return apperrors.ErrNotificationAccessDenied
	}
	if notification.IsRead {
		return nil
	}
	if err := s.notificationRepo.MarkAsRead(notificationID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *notificationService) MarkAllRead(userID string) error {
	if err := s.notificationRepo.MarkAllAsRead(userID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

func newNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		SenderID:    n.SenderID,
		Type:        n.Type,
		Title:       n.Title,
		Body:        n.Body,
		ReferenceID: n.ReferenceID,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}
