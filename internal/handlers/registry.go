package handlers

import (
	"donorlink/internal/services"
	"donorlink/internal/validator"
	"donorlink/ws"
)

// AppHandlers собирает HTTP-слой приложения
type AppHandlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Request      *RequestHandler
	Offer        *OfferHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	WS           *WSHandler
}

func NewAppHandlers(svc *services.ServiceContainer, manager *ws.Manager, v *validator.Validator) *AppHandlers {
	base := NewBaseHandler(v)
	return &AppHandlers{
		Auth:         NewAuthHandler(base, svc.Auth),
		User:         NewUserHandler(base, svc.User),
		Request:      NewRequestHandler(base, svc.Request),
		Offer:        NewOfferHandler(base, svc.Offer),
		Chat:         NewChatHandler(base, svc.Chat),
		Notification: NewNotificationHandler(base, svc.Notification),
		WS:           NewWSHandler(manager, svc.Chat),
	}
}
