// AngelaMos | 2026
// dto.go

package auth

import (
	"time"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type SignupRequest struct {
	Name     string `json:"name"      validate:"required,min=1,max=100"`
	Email    string `json:"email"     validate:"required,email,max=255"`
	Password string `json:"password"  validate:"required,min=8,max=128"`
	Role     string `json:"role"      validate:"omitempty,oneof=user admin"`
	UserType string `json:"user_type" validate:"omitempty,oneof=student educator"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type RequestResetRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"        validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=128"`
}

type TokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type UserSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

type AuthResponse struct {
	User   UserSummary   `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// ResetRequestedResponse is identical whether or not the account exists.
type ResetRequestedResponse struct {
	Message string `json:"message"`
}
