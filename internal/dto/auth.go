package dto

import (
	"time"

	"kodbank/internal/models"

	"github.com/google/uuid"
)

// Auth Request DTOs

// RegisterRequest contains user registration data
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Mobile   string `json:"mobile" validate:"omitempty,max=20"`
}

// LoginRequest contains login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries the profile fields a user may change. Nil fields are left as they are.
type UpdateProfileRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=100"`
	Mobile *string `json:"mobile" validate:"omitempty,max=20"`
}

// Auth Response DTOs

// UserResponse is the public view of a user
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		Mobile:    user.Mobile,
		CreatedAt: user.CreatedAt,
	}
}

// AuthResult is what register and login hand back to the handler
type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// UserEnvelope wraps a single user
type UserEnvelope struct {
	Success bool         `json:"success"`
	User    UserResponse `json:"user"`
}
