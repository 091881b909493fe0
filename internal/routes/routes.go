package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/handlers"
	"donorlink/internal/middleware"
)

// RegisterRoutes вешает все маршруты приложения на роутер
func RegisterRoutes(router *gin.Engine, h *handlers.AppHandlers) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// WS-шлюз аутентифицируется сам (token в query), мимо auth-мидлвары
	router.GET("/ws", h.WS.Serve)

	api := router.Group("/api/v1")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.Auth.Register)
		authGroup.POST("/login", h.Auth.Login)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/users/me", h.User.Me)
		protected.GET("/users/:id", h.User.GetByID)

		protected.POST("/requests", h.Request.Create)
		protected.GET("/requests", h.Request.ListOpen)
		protected.GET("/requests/:id", h.Request.GetByID)
		protected.POST("/requests/:id/close", h.Request.Close)

		protected.POST("/requests/:id/offers", h.Offer.Create)
		protected.GET("/requests/:id/offers", h.Offer.ListByRequest)
		protected.GET("/offers/sent", h.Offer.ListSent)
		protected.GET("/offers/received", h.Offer.ListReceived)
		protected.GET("/offers/:id", h.Offer.GetByID)
		protected.POST("/offers/:id/accept", h.Offer.Accept)
		protected.POST("/offers/:id/fulfill", h.Offer.Fulfill)
		protected.POST("/offers/:id/rate", h.Offer.Rate)
		protected.DELETE("/offers/:id", h.Offer.Cancel)

		protected.POST("/chat/messages", h.Chat.SendMessage)
		protected.GET("/chat/history", h.Chat.History)
		protected.POST("/chat/read", h.Chat.MarkRead)
		protected.GET("/chat/unread-count", h.Chat.UnreadCount)

		protected.GET("/notifications", h.Notification.List)
		protected.GET("/notifications/unread-count", h.Notification.UnreadCount)
		protected.POST("/notifications/:id/read", h.Notification.MarkRead)
		protected.POST("/notifications/read-all", h.Notification.MarkAllRead)
	}
}
