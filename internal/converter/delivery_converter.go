package converter

import (
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
)

func AgentToResponse(agent *entity.DeliveryAgent) *dto.AgentResponse {
	if agent == nil {
		return nil
	}

	return &dto.AgentResponse{
		ID:        agent.ID,
		Name:      agent.Name,
		Phone:     agent.Phone,
		Email:     agent.Email,
		Status:    agent.Status,
		CreatedAt: agent.CreatedAt,
		UpdatedAt: agent.UpdatedAt,
	}
}

func DeliveryLocationToResponse(location *entity.DeliveryLocation) *dto.DeliveryLocationResponse {
	if location == nil {
		return nil
	}

	return &dto.DeliveryLocationResponse{
		OrderID:   location.OrderID,
		AgentID:   location.AgentID,
		Agent:     AgentToResponse(location.Agent),
		Latitude:  location.Latitude,
		Longitude: location.Longitude,
		Accuracy:  location.Accuracy,
		Speed:     location.Speed,
		Heading:   location.Heading,
		UpdatedAt: location.UpdatedAt,
	}
}
