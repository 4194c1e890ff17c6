package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPendingPrescriptionReview OrderStatus = "pending_prescription_review"
	OrderStatusPending                   OrderStatus = "pending"
	OrderStatusApproved                  OrderStatus = "approved"
	OrderStatusShipped                   OrderStatus = "shipped"
	OrderStatusOutForDelivery            OrderStatus = "out_for_delivery"
	OrderStatusDelivered                 OrderStatus = "delivered"
	OrderStatusCanceled                  OrderStatus = "canceled"
)

// IsKnown reports whether s is any lifecycle status
func (s OrderStatus) IsKnown() bool {
	switch s {
	case OrderStatusPendingPrescriptionReview, OrderStatusPending, OrderStatusApproved,
		OrderStatusShipped, OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// IsManuallySettable reports whether an administrator may set s directly.
// out_for_delivery comes from agent assignment and pending_prescription_review from placement.
func (s OrderStatus) IsManuallySettable() bool {
	switch s {
	case OrderStatusPending, OrderStatusApproved, OrderStatusShipped, OrderStatusDelivered, OrderStatusCanceled:
		return true
	}
	return false
}

// IsDeletable reports whether an order in status s may be removed
func (s OrderStatus) IsDeletable() bool {
	return s == OrderStatusPending || s == OrderStatusCanceled
}

// IsInTransit reports whether deliveries for this status are tracked live
func (s OrderStatus) IsInTransit() bool {
	return s == OrderStatusShipped || s == OrderStatusOutForDelivery
}

type Order struct {
	ID                int64               `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            int64               `gorm:"not null;index" json:"user_id"`
	PharmacyID        *int64              `gorm:"index" json:"pharmacy_id"`
	TotalPrice        decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"total_price"`
	DeliveryFee       *int64              `json:"delivery_fee"`
	PrescriptionFile  *string             `gorm:"type:text" json:"prescription_file"`
	InsuranceProvider string              `gorm:"type:varchar(50);not null;default:NONE" json:"insurance_provider"`
	Status            OrderStatus         `gorm:"type:varchar(40);not null;default:pending;index" json:"status"`
	DeliveryAgentID   *int64              `gorm:"index" json:"delivery_agent_id"`
	CreatedAt         time.Time           `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Items    []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	User     *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Pharmacy *Pharmacy   `gorm:"foreignKey:PharmacyID" json:"pharmacy,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// LineItem is a requested product and quantity, before pricing
type LineItem struct {
	ProductID int64
	Quantity  int
}
