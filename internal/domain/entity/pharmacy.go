package entity

import (
	"time"
)

// InsuranceNone is the code for uninsured orders; every pharmacy accepts it
const InsuranceNone = "NONE"

type Pharmacy struct {
	ID                int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name              string     `gorm:"type:varchar(255);not null" json:"name"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone             string     `gorm:"type:varchar(50)" json:"phone"`
	Address           string     `gorm:"type:text;not null" json:"address"`
	InsuranceAccepted StringList `gorm:"type:jsonb;not null" json:"insurance_accepted"`
	IsActive          *bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Location *Location `gorm:"foreignKey:PharmacyID" json:"location,omitempty"`
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

// AcceptsInsurance reports whether an order under code can be served here
func (p *Pharmacy) AcceptsInsurance(code string) bool {
	if code == "" || code == InsuranceNone {
		return true
	}
	return p.InsuranceAccepted.Contains(code)
}
