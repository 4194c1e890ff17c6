package entity

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a customer or an administrator account
type User struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name               string     `gorm:"type:varchar(255);not null" json:"name"`
	Email              string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Phone              string     `gorm:"type:varchar(50)" json:"phone"`
	Password           string     `gorm:"type:text;not null" json:"-"`
	Role               string     `gorm:"type:varchar(20);not null;default:user" json:"role"`
	InsuranceProviders StringList `gorm:"type:jsonb" json:"insurance_providers"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Location *Location `gorm:"foreignKey:UserID" json:"location,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
