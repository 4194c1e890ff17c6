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

	"github.com/gorilla/mux"
)

type PaymentHandler struct {
	paymentUsecase usecase.PaymentUsecase
	validator      *validator.CustomValidator
}

func NewPaymentHandler(paymentUsecase usecase.PaymentUsecase, validator *validator.CustomValidator) *PaymentHandler {
	return &PaymentHandler{
		paymentUsecase: paymentUsecase,
		validator:      validator,
	}
}

// Pay starts a mobile-money collection for an order
// @Summary Request to pay
// @Tags Payments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.PaymentRequest true "Payment Request"
// @Success 202 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payment/pay [post]
func (h *PaymentHandler) Pay(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())

	var req dto.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	payment, err := h.paymentUsecase.RequestToPay(r.Context(), actorID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.BadGateway(w, "Payment request failed")
		default:
			response.InternalServerError(w, "Failed to request payment")
		}
		return
	}

	response.Success(w, http.StatusAccepted, "Payment requested successfully", payment)
}

// Status refreshes and returns the status of a payment
// @Summary Payment status
// @Tags Payments
// @Security BearerAuth
// @Produce json
// @Param referenceId path string true "Payment reference"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 502 {object} response.Response
// @Router /payment/status/{referenceId} [get]
func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	referenceID := mux.Vars(r)["referenceId"]

	status, err := h.paymentUsecase.CheckStatus(r.Context(), referenceID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPaymentNotFound):
			response.NotFound(w, "Payment not found")
		case errors.Is(err, usecase.ErrPaymentGateway):
			response.BadGateway(w, "Payment status check failed")
		default:
			response.InternalServerError(w, "Failed to check payment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Payment status retrieved successfully", status)
}
