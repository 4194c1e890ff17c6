package dto

import (
	"time"
)

// Request DTOs

type CreateAgentRequest struct {
	Name   string `json:"name" validate:"required,min=2,max=255"`
	Phone  string `json:"phone" validate:"required,max=50"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,oneof=active inactive busy"`
}

type AssignAgentRequest struct {
	AgentID int64 `json:"agent_id" validate:"required,gt=0"`
}

// AgentLocationRequest is one GPS ping sent by the agent app
type AgentLocationRequest struct {
	AgentID   int64    `json:"agent_id" validate:"required,gt=0"`
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Accuracy  float64  `json:"accuracy" validate:"gte=0"`
	Speed     float64  `json:"speed" validate:"gte=0"`
	Heading   float64  `json:"heading" validate:"gte=0,lte=360"`
}

// Response DTOs

type AgentResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DeliveryLocationResponse struct {
	OrderID   int64          `json:"order_id"`
	AgentID   int64          `json:"agent_id"`
	Agent     *AgentResponse `json:"agent,omitempty"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
	Accuracy  float64        `json:"accuracy"`
	Speed     float64        `json:"speed"`
	Heading   float64        `json:"heading"`
	UpdatedAt time.Time      `json:"updated_at"`
}
