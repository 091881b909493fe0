package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/services"
	"donorlink/pkg/apperrors"
)

type UserHandler struct {
	BaseHandler
	userService services.UserService
}

func NewUserHandler(base BaseHandler, userService services.UserService) *UserHandler {
	return &UserHandler{BaseHandler: base, userService: userService}
}

// Me - GET /api/v1/users/me
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.userService.GetByID(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetByID - GET /api/v1/users/:id (публичный профиль с агрегатами)
func (h *UserHandler) GetByID(c *gin.Context) {
	resp, err := h.userService.GetByID(c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
