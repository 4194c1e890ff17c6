package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type PaymentRequest struct {
	OrderID  int64           `json:"order_id" validate:"required,gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"required,gt=0"`
	Payer    string          `json:"payer" validate:"required,numeric,min=9,max=15"`
	Currency string          `json:"currency" validate:"omitempty,len=3"`
}

// Response DTOs

type PaymentInitiatedResponse struct {
	ReferenceID string `json:"reference_id"`
	Status      string `json:"status"`
}

type PaymentStatusResponse struct {
	ReferenceID string          `json:"reference_id"`
	OrderID     int64           `json:"order_id"`
	Status      string          `json:"status"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Payer       string          `json:"payer"`
	CreatedAt   time.Time       `json:"created_at"`
}
