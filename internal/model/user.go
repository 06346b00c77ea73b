package model

import (
	"time"

	"github.com/google/uuid"
)

// UserRole separates test-takers from platform administrators.
type UserRole string

const (
	RoleStudent UserRole = "STUDENT"
	RoleAdmin   UserRole = "ADMIN"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Degree       string    `json:"degree,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Verified     bool      `json:"verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterRequest is the payload for creating a new student account.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"omitempty,min=6,max=20"`
	Degree   string `json:"degree" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// VerifyOTPRequest confirms a freshly registered account.
type VerifyOTPRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	OTP    string    `json:"otp" binding:"required,len=6"`
}

// LoginRequest is the payload for authentication.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

// LoginResponse is returned after successful login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ForgotPasswordRequest starts an OTP-backed password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResetPasswordRequest completes an OTP-backed password reset.
type ResetPasswordRequest struct {
	UserID      uuid.UUID `json:"user_id" binding:"required"`
	OTP         string    `json:"otp" binding:"required,len=6"`
	NewPassword string    `json:"new_password" binding:"required,min=6,max=128"`
}
