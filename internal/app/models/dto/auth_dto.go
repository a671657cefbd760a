package dto

import "github.com/akshayk/labledger/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserSummary is the minimal user payload returned after login
type UserSummary struct {
	ID       int64       `json:"id"`
	Name     string      `json:"name"`
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
}

// LoginResponse represents a successful authentication response
type LoginResponse struct {
	Token     string      `json:"token"`
	TokenType string      `json:"tokenType" example:"Bearer"`
	ExpiresIn int         `json:"expiresIn"`
	User      UserSummary `json:"user"`
}

// UpdatePasswordRequest represents a self-service password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
