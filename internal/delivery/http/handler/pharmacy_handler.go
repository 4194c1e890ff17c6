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

type PharmacyHandler struct {
	pharmacyUsecase usecase.PharmacyUsecase
	validator       *validator.CustomValidator
}

func NewPharmacyHandler(pharmacyUsecase usecase.PharmacyUsecase, validator *validator.CustomValidator) *PharmacyHandler {
	return &PharmacyHandler{
		pharmacyUsecase: pharmacyUsecase,
		validator:       validator,
	}
}

func (h *PharmacyHandler) Register(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.CreatePharmacyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pharmacy, err := h.pharmacyUsecase.Register(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPharmacyEmailExists):
			response.Conflict(w, "Pharmacy email already exists")
		case errors.Is(err, usecase.ErrInvalidCoordinates):
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to register pharmacy")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Pharmacy registered successfully", pharmacy)
}

func (h *PharmacyHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := pageParams(r)

	pharmacies, total, err := h.pharmacyUsecase.List(r.Context(), limit, offset)
	if err != nil {
		response.InternalServerError(w, "Failed to get pharmacies")
		return
	}

	response.SuccessWithMeta(w, http.StatusOK, "Pharmacies retrieved successfully", pharmacies, pageMeta(limit, offset, len(pharmacies), total))
}

func (h *PharmacyHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid pharmacy ID")
		return
	}

	pharmacy, err := h.pharmacyUsecase.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrPharmacyNotFound) {
			response.NotFound(w, "Pharmacy not found")
			return
		}
		response.InternalServerError(w, "Failed to get pharmacy")
		return
	}

	response.Success(w, http.StatusOK, "Pharmacy retrieved successfully", pharmacy)
}
