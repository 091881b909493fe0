package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/services"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

type AuthHandler struct {
	BaseHandler
	authService services.AuthService
}

func NewAuthHandler(base BaseHandler, authService services.AuthService) *AuthHandler {
	return &AuthHandler{BaseHandler: base, authService: authService}
}

// Register - POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var input dto.RegisterRequest
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.authService.Register(&input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Login - POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var input dto.LoginRequest
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.authService.Login(&input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
