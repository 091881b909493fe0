package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"donorlink/internal/services"
	"donorlink/internal/services/dto"
	"donorlink/pkg/apperrors"
)

type OfferHandler struct {
	BaseHandler
	offerService services.OfferService
}

func NewOfferHandler(base BaseHandler, offerService services.OfferService) *OfferHandler {
	return &OfferHandler{BaseHandler: base, offerService: offerService}
}

// Create - POST /api/v1/requests/:id/offers
func (h *OfferHandler) Create(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var input dto.CreateOfferRequest
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.offerService.Create(c.Request.Context(), userID, c.Param("id"), &input)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Accept - POST /api/v1/offers/:id/accept
func (h *OfferHandler) Accept(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.Accept(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Fulfill - POST /api/v1/offers/:id/fulfill
func (h *OfferHandler) Fulfill(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.Fulfill(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Rate - POST /api/v1/offers/:id/rate
func (h *OfferHandler) Rate(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	var input dto.RateOfferRequest
	if !h.BindAndValidateJSON(c, &input) {
		return
	}

	resp, err := h.offerService.Rate(c.Request.Context(), userID, c.Param("id"), input.Rating)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancel - DELETE /api/v1/offers/:id
func (h *OfferHandler) Cancel(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	if err := h.offerService.Cancel(c.Request.Context(), userID, c.Param("id")); err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetByID - GET /api/v1/offers/:id
func (h *OfferHandler) GetByID(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.GetByID(userID, c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListByRequest - GET /api/v1/requests/:id/offers
func (h *OfferHandler) ListByRequest(c *gin.Context) {
	resp, err := h.offerService.ListByRequest(c.Param("id"))
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListSent - GET /api/v1/offers/sent
func (h *OfferHandler) ListSent(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.ListSent(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListReceived - GET /api/v1/offers/received
func (h *OfferHandler) ListReceived(c *gin.Context) {
	userID, ok := h.CurrentUserID(c)
	if !ok {
		return
	}

	resp, err := h.offerService.ListReceived(userID)
	if err != nil {
		apperrors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
