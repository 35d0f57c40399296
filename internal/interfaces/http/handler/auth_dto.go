package handler

import (
	"time"

	"github.com/grocery/admin/internal/domain/identity"
)

// =====================
// Auth Request DTOs
// =====================

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,max=128"`
}

// ProfileRequest represents the editable profile fields
type ProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,max=100"`
	Email string `json:"email" binding:"omitempty,email,max=254"`
	Phone string `json:"phone" binding:"omitempty,max=32"`
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email,max=254"`
}

// ResetPasswordRequest sets a new password with the token from the reset link
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	Email       string `json:"email" binding:"required,email,max=254"`
	NewPassword string `json:"newPassword" binding:"required,max=128"`
}

// =====================
// Auth Response DTOs
// =====================

// LoginResponse represents the response body for successful login
type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	Admin     identity.Admin `json:"admin"`
}

// MessageResponse carries a confirmation message
type MessageResponse struct {
	Message string `json:"message"`
}
