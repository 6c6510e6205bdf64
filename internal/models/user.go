package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `json:"id"`
	Email             string     `json:"email"`
	PasswordHash      string     `json:"-"`
	Username          string     `json:"username"`
	FullName          *string    `json:"full_name"`
	AvatarURL         *string    `json:"avatar_url"`
	PhoneNumber       *string    `json:"phone_number"`
	PreferredLanguage string     `json:"preferred_language"` // "en" | "sw"
	IsActive          bool       `json:"is_active"`
	CreatedAt         time.Time  `json:"created_at"`
	LastLoginAt       *time.Time `json:"last_login_at"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UpdateProfileRequest is a partial update: nil fields are left untouched.
type UpdateProfileRequest struct {
	Username          *string `json:"username"`
	FullName          *string `json:"full_name"`
	AvatarURL         *string `json:"avatar_url"`
	PhoneNumber       *string `json:"phone_number"`
	PreferredLanguage *string `json:"preferred_language"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
