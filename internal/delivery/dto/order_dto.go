package dto

import (
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// Request DTOs

type OrderItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// PrescriptionUpload is an uploaded prescription file, still unread
type PrescriptionUpload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// PlaceOrderRequest is built from the multipart form of POST /orders.
// Exactly one of Items and Prescription must be present.
type PlaceOrderRequest struct {
	UserID            int64              `validate:"required,gt=0"`
	Items             []OrderItemRequest `validate:"omitempty,dive"`
	InsuranceProvider string             `validate:"omitempty,max=50"`
	Prescription      *PrescriptionUpload
}

type ReviewPrescriptionRequest struct {
	OrderID           int64              `json:"order_id" validate:"required,gt=0"`
	Items             []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	InsuranceProvider string             `json:"insurance_provider" validate:"omitempty,max=50"`
	Status            string             `json:"status" validate:"omitempty,max=40"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Response DTOs

type SelectedPharmacyResponse struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Distance float64 `json:"distance"`
}

// OrderPlacementResponse summarises a placed or re-priced order.
// Pricing fields are empty for prescription-only orders.
type OrderPlacementResponse struct {
	OrderID      int64                     `json:"order_id"`
	Status       string                    `json:"status"`
	PharmacyID   *int64                    `json:"pharmacy_id,omitempty"`
	Pharmacy     *SelectedPharmacyResponse `json:"pharmacy,omitempty"`
	DeliveryFee  *int64                    `json:"delivery_fee,omitempty"`
	TotalPrice   *decimal.Decimal          `json:"total_price,omitempty"`
	DiscountRate *decimal.Decimal          `json:"discount_rate,omitempty"`
}

type OrderItemResponse struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"order_id"`
	ProductID int64           `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderResponse struct {
	ID                int64               `json:"id"`
	UserID            int64               `json:"user_id"`
	UserName          string              `json:"user_name,omitempty"`
	PharmacyID        *int64              `json:"pharmacy_id"`
	PharmacyName      string              `json:"pharmacy_name,omitempty"`
	TotalPrice        *decimal.Decimal    `json:"total_price"`
	DeliveryFee       *int64              `json:"delivery_fee"`
	PrescriptionFile  *string             `json:"prescription_file"`
	InsuranceProvider string              `json:"insurance_provider"`
	Status            string              `json:"status"`
	DeliveryAgentID   *int64              `json:"delivery_agent_id"`
	CreatedAt         time.Time           `json:"created_at"`
	Items             []OrderItemResponse `json:"items,omitempty"`
}
