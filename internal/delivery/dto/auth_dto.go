package dto

import (
	"time"
)

// Request DTOs

type RegisterRequest struct {
	Name               string   `json:"name" validate:"required,min=2"`
	Email              string   `json:"email" validate:"required,email"`
	Password           string   `json:"password" validate:"required,min=6"`
	Phone              string   `json:"phone" validate:"omitempty,max=50"`
	InsuranceProviders []string `json:"insurance_providers" validate:"omitempty,dive,required,max=50"`
	Latitude           *float64 `json:"latitude" validate:"required,latitude"`
	Longitude          *float64 `json:"longitude" validate:"required,longitude"`
}

// LoginRequest optionally carries fresh coordinates; they are only applied when both are valid
type LoginRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type TokenResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"`
	User         *UserResponse `json:"user,omitempty"`
}

type UserResponse struct {
	ID                 int64             `json:"id"`
	Name               string            `json:"name"`
	Email              string            `json:"email"`
	Phone              string            `json:"phone,omitempty"`
	Role               string            `json:"role"`
	InsuranceProviders []string          `json:"insurance_providers"`
	Location           *LocationResponse `json:"location,omitempty"`
	CreatedAt          time.Time         `json:"created_at"`
}

// LogoutRequest optionally names the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
