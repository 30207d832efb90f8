package dto

import (
	"time"

	"github.com/SscSPs/expense_approval_app/internal/core/domain"
)

// RegisterRequest is the self-service sign-up payload.
type RegisterRequest struct {
	Name     *string `json:"name"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
}

// CreateUserRequest is the admin-only user creation payload.
type CreateUserRequest struct {
	Name     *string         `json:"name"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     domain.UserRole `json:"role" binding:"required,oneof=user admin"`
}

// LoginRequest carries email and password credentials.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries an ID token obtained by the frontend from Google.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserResponse is the public view of a user.
type UserResponse struct {
	ID    int64           `json:"id"`
	Name  *string         `json:"name,omitempty"`
	Email string          `json:"email"`
	Role  domain.UserRole `json:"role"`
}

// ToUserResponse converts a domain.User to UserResponse DTO
func ToUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
