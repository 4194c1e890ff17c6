package entity

import (
	"time"
)

const (
	AgentStatusActive   = "active"
	AgentStatusInactive = "inactive"
	AgentStatusBusy     = "busy"
)

type DeliveryAgent struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"phone"`
	Email     string    `gorm:"type:varchar(255)" json:"email"`
	Status    string    `gorm:"type:varchar(20);not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (DeliveryAgent) TableName() string {
	return "delivery_agents"
}

// DeliveryLocation is one GPS ping from an agent carrying an order
type DeliveryLocation struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	AgentID   int64     `gorm:"not null;index" json:"agent_id"`
	Latitude  float64   `gorm:"not null" json:"latitude"`
	Longitude float64   `gorm:"not null" json:"longitude"`
	Accuracy  float64   `gorm:"not null;default:0" json:"accuracy"`
	Speed     float64   `gorm:"not null;default:0" json:"speed"`
	Heading   float64   `gorm:"not null;default:0" json:"heading"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index" json:"updated_at"`

	Agent *DeliveryAgent `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
}

func (DeliveryLocation) TableName() string {
	return "delivery_locations"
}

// ActiveDelivery joins an in-transit order with an agent ping
type ActiveDelivery struct {
	OrderID      int64       `json:"order_id"`
	Status       OrderStatus `json:"status"`
	CustomerName string      `json:"customer_name"`
	PharmacyName string      `json:"pharmacy_name"`
	AgentID      int64       `json:"agent_id"`
	AgentName    string      `json:"agent_name"`
	AgentPhone   string      `json:"phone"`
	Latitude     float64     `json:"latitude"`
	Longitude    float64     `json:"longitude"`
	Accuracy     float64     `json:"accuracy"`
	Speed        float64     `json:"speed"`
	Heading      float64     `json:"heading"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
