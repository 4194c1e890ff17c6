package dto

import (
	"time"
)

// Request DTOs

type CreatePharmacyRequest struct {
	Name              string   `json:"name" validate:"required,min=2,max=255"`
	Email             string   `json:"email" validate:"required,email"`
	Phone             string   `json:"phone" validate:"omitempty,max=50"`
	Address           string   `json:"address" validate:"required"`
	InsuranceAccepted []string `json:"insurance_accepted" validate:"omitempty,dive,required,max=50"`
	IsActive          *bool    `json:"is_active"`
	LocationRequest
}

// Response DTOs

type PharmacyResponse struct {
	ID                int64             `json:"id"`
	Name              string            `json:"name"`
	Email             string            `json:"email"`
	Phone             string            `json:"phone"`
	Address           string            `json:"address"`
	InsuranceAccepted []string          `json:"insurance_accepted"`
	IsActive          bool              `json:"is_active"`
	Location          *LocationResponse `json:"location,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}
