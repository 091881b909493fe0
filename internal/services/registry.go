package services

import (
	"time"

	"gorm.io/gorm"

	"donorlink/internal/repositories"
)

// ServiceContainer собирает сервисный слой поверх репозиториев
type ServiceContainer struct {
	Auth         AuthService
	User         UserService
	Request      RequestService
	Offer        OfferService
	Chat         ChatService
	Notification NotificationService
	Rating       RatingService
}

// ContainerOptions - параметры, приходящие из конфигурации
type ContainerOptions struct {
	Pusher           RealtimePusher
	Marker           DedupeMarker // nil допустим
	DedupeWindow     time.Duration
	MaxMessageLength int
	HistoryPageLimit int
}

func NewServiceContainer(db *gorm.DB, opts ContainerOptions) *ServiceContainer {
	userRepo := repositories.NewUserRepository(db)
	requestRepo := repositories.NewRequestRepository(db)
	offerRepo := repositories.NewOfferRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)

	notification := NewNotificationService(notificationRepo, userRepo, opts.Pusher, opts.Marker, opts.DedupeWindow)
	rating := NewRatingService(offerRepo, userRepo)

	return &ServiceContainer{
		Auth:         NewAuthService(userRepo),
		User:         NewUserService(userRepo),
		Request:      NewRequestService(requestRepo),
		Offer:        NewOfferService(offerRepo, requestRepo, userRepo, notification, rating),
		Chat:         NewChatService(messageRepo, userRepo, notification, opts.Pusher, opts.MaxMessageLength, opts.HistoryPageLimit),
		Notification: notification,
		Rating:       rating,
	}
}
