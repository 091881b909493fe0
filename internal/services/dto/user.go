package dto

import (
	"time"

	"donorlink/internal/models"
)

type UserResponse struct {
	ID                string                 `json:"id"`
	DisplayName       string                 `json:"display_name"`
	AvatarURL         string                 `json:"avatar_url,omitempty"`
	RatingAsDonor     models.RatingAggregate `json:"rating_as_donor"`
	RatingAsRecipient models.RatingAggregate `json:"rating_as_recipient"`
	CreatedAt         time.Time              `json:"created_at"`
}

func NewUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:                user.ID,
		DisplayName:       user.DisplayName,
		AvatarURL:         user.AvatarURL,
		RatingAsDonor:     user.RatingAsDonor,
		RatingAsRecipient: user.RatingAsRecipient,
		CreatedAt:         user.CreatedAt,
	}
}
