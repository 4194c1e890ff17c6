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

type LocationHandler struct {
	locationUsecase usecase.LocationUsecase
	validator       *validator.CustomValidator
}

func NewLocationHandler(locationUsecase usecase.LocationUsecase, validator *validator.CustomValidator) *LocationHandler {
	return &LocationHandler{
		locationUsecase: locationUsecase,
		validator:       validator,
	}
}

func (h *LocationHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationUsecase.GetAll(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get locations")
		return
	}

	response.Success(w, http.StatusOK, "Locations retrieved successfully", locations)
}

func (h *LocationHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	location, err := h.locationUsecase.GetByUser(r.Context(), userID)
	h.respond(w, location, err, "Location retrieved successfully")
}

func (h *LocationHandler) GetByPharmacy(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := pathID(r, "pharmacyId")
	if !ok {
		response.BadRequest(w, "Invalid pharmacy ID")
		return
	}

	location, err := h.locationUsecase.GetByPharmacy(r.Context(), pharmacyID)
	h.respond(w, location, err, "Location retrieved successfully")
}

func (h *LocationHandler) UpdateByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		response.BadRequest(w, "Invalid user ID")
		return
	}
	h.updateFor(w, r, func(req *dto.LocationRequest) (*dto.LocationResponse, error) {
		return h.locationUsecase.UpdateByUser(r.Context(), userID, req)
	})
}

func (h *LocationHandler) UpdateByPharmacy(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := pathID(r, "pharmacyId")
	if !ok {
		response.BadRequest(w, "Invalid pharmacy ID")
		return
	}
	h.updateFor(w, r, func(req *dto.LocationRequest) (*dto.LocationResponse, error) {
		return h.locationUsecase.UpdateByPharmacy(r.Context(), pharmacyID, req)
	})
}

// UpdateMine updates the location of the authenticated user
func (h *LocationHandler) UpdateMine(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}
	h.updateFor(w, r, func(req *dto.LocationRequest) (*dto.LocationResponse, error) {
		return h.locationUsecase.UpdateByUser(r.Context(), userID, req)
	})
}

func (h *LocationHandler) updateFor(w http.ResponseWriter, r *http.Request, update func(*dto.LocationRequest) (*dto.LocationResponse, error)) {
	var req dto.LocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	location, err := update(&req)
	h.respond(w, location, err, "Location updated successfully")
}

func (h *LocationHandler) respond(w http.ResponseWriter, location *dto.LocationResponse, err error, message string) {
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrLocationNotFound):
			response.NotFound(w, "Location not found")
		case errors.Is(err, usecase.ErrInvalidCoordinates):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to process location")
		}
		return
	}

	response.Success(w, http.StatusOK, message, location)
}
