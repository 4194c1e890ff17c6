package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateProductRequest struct {
	Name                 string          `json:"name" validate:"required,min=2,max=255"`
	Description          string          `json:"description"`
	Category             string          `json:"category" validate:"omitempty,max=100"`
	Price                decimal.Decimal `json:"price" validate:"required,gt=0"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Image                *string         `json:"image"`
	PharmacyID           int64           `json:"pharmacy_id" validate:"required,gt=0"`
}

type UpdateProductRequest struct {
	Name                 string          `json:"name" validate:"required,min=2,max=255"`
	Description          string          `json:"description"`
	Category             string          `json:"category" validate:"omitempty,max=100"`
	Price                decimal.Decimal `json:"price" validate:"required,gt=0"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Image                *string         `json:"image"`
}

// ProductQuery is the catalog listing filter read from the query string
type ProductQuery struct {
	Category             string
	Search               string
	RequiresPrescription *bool
	Limit                int
	Offset               int
}

// Response DTOs

type ProductResponse struct {
	ID                   int64           `json:"id"`
	Name                 string          `json:"name"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Price                decimal.Decimal `json:"price"`
	RequiresPrescription bool            `json:"requires_prescription"`
	Image                *string         `json:"image"`
	PharmacyID           int64           `json:"pharmacy_id"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
