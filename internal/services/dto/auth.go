package dto

type RegisterRequest struct {
	Email       string `json:"email" binding:"required" validate:"required,email"`
	Password    string `json:"password" binding:"required" validate:"required,min=8"`
	DisplayName string `json:"display_name" binding:"required" validate:"required,min=2,max=100"`
	AvatarURL   string `json:"avatar_url" validate:"omitempty,max=500"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type LoginResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
