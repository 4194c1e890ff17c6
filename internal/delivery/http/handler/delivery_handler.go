package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/delivery/http/middleware"
	"farumasi-backend/internal/usecase"
	"farumasi-backend/pkg/response"
	"farumasi-backend/pkg/validator"
)

type DeliveryHandler struct {
	deliveryUsecase usecase.DeliveryUsecase
	validator       *validator.CustomValidator
}

func NewDeliveryHandler(deliveryUsecase usecase.DeliveryUsecase, validator *validator.CustomValidator) *DeliveryHandler {
	return &DeliveryHandler{
		deliveryUsecase: deliveryUsecase,
		validator:       validator,
	}
}

func (h *DeliveryHandler) CreateAgent(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	agent, err := h.deliveryUsecase.CreateAgent(r.Context(), &req)
	if err != nil {
		if errors.Is(err, usecase.ErrAgentPhoneExists) {
			response.Conflict(w, "Agent phone already exists")
			return
		}
		response.InternalServerError(w, "Failed to create delivery agent")
		return
	}

	response.Success(w, http.StatusCreated, "Delivery agent created successfully", agent)
}

func (h *DeliveryHandler) GetAgent(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "agentId")
	if !ok {
		response.BadRequest(w, "Invalid agent ID")
		return
	}

	agent, err := h.deliveryUsecase.GetAgent(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrAgentNotFound) {
			response.NotFound(w, "Delivery agent not found")
			return
		}
		response.InternalServerError(w, "Failed to get delivery agent")
		return
	}

	response.Success(w, http.StatusOK, "Delivery agent retrieved successfully", agent)
}

func (h *DeliveryHandler) AssignAgent(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	orderID, ok := pathID(r, "orderId")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req dto.AssignAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.deliveryUsecase.AssignAgent(r.Context(), actorID, orderID, &req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, usecase.ErrAgentNotFound):
			response.NotFound(w, "Delivery agent not found")
		default:
			response.InternalServerError(w, "Failed to assign delivery agent")
		}
		return
	}

	response.Success(w, http.StatusOK, "Delivery agent assigned successfully", nil)
}

// UpdateLocation records a GPS ping from the agent carrying the order
func (h *DeliveryHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req dto.AgentLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	location, err := h.deliveryUsecase.UpdateAgentLocation(r.Context(), orderID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCoordinates):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, usecase.ErrAgentNotFound):
			response.NotFound(w, "Delivery agent not found")
		default:
			response.InternalServerError(w, "Failed to update delivery location")
		}
		return
	}

	response.Success(w, http.StatusOK, "Delivery location updated successfully", location)
}

func (h *DeliveryHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathID(r, "orderId")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	location, err := h.deliveryUsecase.GetLatestLocation(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, usecase.ErrDeliveryLocationNotFound) {
			response.NotFound(w, "Delivery agent location not found")
			return
		}
		response.InternalServerError(w, "Failed to get delivery location")
		return
	}

	response.Success(w, http.StatusOK, "Delivery location retrieved successfully", location)
}

func (h *DeliveryHandler) ListActive(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.deliveryUsecase.ListActiveDeliveries(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get active deliveries")
		return
	}

	response.Success(w, http.StatusOK, "Active deliveries retrieved successfully", deliveries)
}
