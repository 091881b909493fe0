package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/services"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

type RequestHandler struct {
	BaseHandler
	requestService services.RequestService
}

func NewRequestHandler(base BaseHandler, requestService services.RequestService) *RequestHandler {
	return &RequestHandler{BaseHandler: base, requestService: requestService}
}

// Create - POST /api/v1/requests
func (h *RequestHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var input dto.CreateRequestRequest
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.requestService.Create(userID, &input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetByID - GET /api/v1/requests/:id
func (h *RequestHandler) GetByID(c *gin.Context) {
	resp, err := h.requestService.GetByID(c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListOpen - GET /api/v1/requests
func (h *RequestHandler) ListOpen(c *gin.Context) {
	limit, offset := h.ParsePagination(c, 20, 100)

	resp, err := h.requestService.ListOpen(limit, offset)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Close - POST /api/v1/requests/:id/close
func (h *RequestHandler) Close(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.requestService.Close(userID, c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
