package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusSuccessful PaymentStatus = "SUCCESSFUL"
	PaymentStatusFailed     PaymentStatus = "FAILED"
)

// Payment mirrors a mobile-money request-to-pay. Rows are never deleted.
type Payment struct {
	ID          int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID     int64           `gorm:"not null;index" json:"order_id"`
	ReferenceID string          `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference_id"`
	Status      PaymentStatus   `gorm:"type:varchar(20);not null;default:PENDING" json:"status"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2)" json:"amount"`
	Payer       string          `gorm:"type:varchar(50)" json:"payer"`
	Currency    string          `gorm:"type:varchar(10);not null;default:RWF" json:"currency"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (Payment) TableName() string {
	return "payments"
}
