package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement"`
	Name                 string          `gorm:"type:varchar(255);not null"`
	Description          string          `gorm:"type:text"`
	Category             string          `gorm:"type:varchar(100);index"`
	Price                decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	RequiresPrescription bool            `gorm:"not null;default:false"`
	Image                *string         `gorm:"type:text"`
	PharmacyID           int64           `gorm:"not null;index"`
	CreatedAt            time.Time       `gorm:"autoCreateTime"`
	UpdatedAt            time.Time       `gorm:"autoUpdateTime"`
}

func (Product) TableName() string {
	return "products"
}

// ProductFilter narrows a catalog listing
type ProductFilter struct {
	Category             string
	Search               string
	RequiresPrescription *bool
	Limit                int
	Offset               int
}
