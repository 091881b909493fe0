package dto

import (
	"time"

	"donorlink/internal/models"
)

type CreateRequestRequest struct {
	Kind        string `json:"kind" binding:"required" validate:"required,is-request-kind"`
	Title       string `json:"title" binding:"required" validate:"required,min=3,max=200"`
	Description string `json:"description" validate:"omitempty,max=4000"`
	City        string `json:"city" validate:"omitempty,max=100"`
	BloodType   string `json:"blood_type" validate:"omitempty,oneof=O- O+ A- A+ B- B+ AB- AB+"`
}

type RequestResponse struct {
	ID          string               `json:"id"`
	OwnerID     string               `json:"owner_id"`
	Kind        models.RequestKind   `json:"kind"`
	Title       string               `json:"title"`
	Description string               `json:"description,omitempty"`
	City        string               `json:"city,omitempty"`
	BloodType   string               `json:"blood_type,omitempty"`
	Status      models.RequestStatus `json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
}

func NewRequestResponse(request *models.DonationRequest) *RequestResponse {
	return &RequestResponse{
		ID:          request.ID,
		OwnerID:     request.OwnerID,
		Kind:        request.Kind,
		Title:       request.Title,
		Description: request.Description,
		City:        request.City,
		BloodType:   request.BloodType,
		Status:      request.Status,
		CreatedAt:   request.CreatedAt,
	}
}

type RequestListResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int64              `json:"total"`
}
