package dto

import (
	"time"

	"donorlink/internal/models"
)

type CreateOfferRequest struct {
	Message    string     `json:"message" validate:"omitempty,max=2000"`
	ProposedAt *time.Time `json:"proposed_at,omitempty"`
	Method     string     `json:"method" validate:"omitempty,max=100"`
}

type RateOfferRequest struct {
	Rating int `json:"rating" binding:"required" validate:"required,min=1,max=5"`
}

type OfferResponse struct {
	ID                string             `json:"id"`
	Kind              models.RequestKind `json:"kind"`
	RequestID         string             `json:"request_id"`
	DonorID           string             `json:"donor_id"`
	RecipientID       string             `json:"recipient_id"`
	Message           string             `json:"message,omitempty"`
	ProposedAt        *time.Time         `json:"proposed_at,omitempty"`
	Method            string             `json:"method,omitempty"`
	Status            models.OfferStatus `json:"status"`
	RatingByDonor     *int               `json:"rating_by_donor,omitempty"`
	RatingByRecipient *int               `json:"rating_by_recipient,omitempty"`
	AcceptedAt        *time.Time         `json:"accepted_at,omitempty"`
	FulfilledAt       *time.Time         `json:"fulfilled_at,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
}

func NewOfferResponse(offer *models.Offer) *OfferResponse {
	return &OfferResponse{
		ID:                offer.ID,
		Kind:              offer.Kind,
		RequestID:         offer.RequestID,
		DonorID:           offer.DonorID,
		RecipientID:       offer.RecipientID,
		Message:           offer.Message,
		ProposedAt:        offer.ProposedAt,
		Method:            offer.Method,
		Status:            offer.Status,
		RatingByDonor:     offer.RatingByDonor,
		RatingByRecipient: offer.RatingByRecipient,
		AcceptedAt:        offer.AcceptedAt,
		FulfilledAt:       offer.FulfilledAt,
		CreatedAt:         offer.CreatedAt,
	}
}

type OfferListResponse struct {
	Offers []*OfferResponse `json:"offers"`
}
