package dto

import "github.com/odtrack/analytics-api/internal/models"

// LoginRequest captures POST /auth/login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the issued token with its account.
type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}
