package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/delivery/http/middleware"
	"farumasi-backend/internal/service"
	"farumasi-backend/internal/usecase"
	"farumasi-backend/pkg/response"
	"farumasi-backend/pkg/validator"
)

const defaultMaxUploadSize = 10 << 20

type OrderHandler struct {
	orderUsecase  usecase.OrderUsecase
	validator     *validator.CustomValidator
	maxUploadSize int64
}

func NewOrderHandler(orderUsecase usecase.OrderUsecase, validator *validator.CustomValidator, maxUploadSize int64) *OrderHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}
	return &OrderHandler{
		orderUsecase:  orderUsecase,
		validator:     validator,
		maxUploadSize: maxUploadSize,
	}
}

// PlaceOrder handles order placement
// @Summary Place an order
// @Description Multipart form with either an "items" JSON array or a "prescription_file", plus an optional "insurance_provider"
// @Tags Orders
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders [post]
func (h *OrderHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		response.BadRequest(w, "Invalid form data")
		return
	}

	req := dto.PlaceOrderRequest{
		UserID:            userID,
		InsuranceProvider: strings.TrimSpace(r.FormValue("insurance_provider")),
	}

	if raw := strings.TrimSpace(r.FormValue("items")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &req.Items); err != nil {
			response.BadRequest(w, "items must be a JSON array of {product_id, quantity}")
			return
		}
	}

	file, header, err := r.FormFile("prescription_file")
	switch {
	case err == nil:
		defer file.Close()
		req.Prescription = &dto.PrescriptionUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        file,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		response.BadRequest(w, "Invalid prescription file")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.orderUsecase.PlaceOrder(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrConflictingOrderMode),
			errors.Is(err, usecase.ErrEmptyOrder),
			errors.Is(err, usecase.ErrPrescriptionRequired),
			errors.Is(err, service.ErrMissingLocation):
			response.BadRequest(w, err.Error())
		case errors.Is(err, service.ErrNoEligiblePharmacy):
			response.NotFound(w, err.Error())
		case errors.Is(err, service.ErrProductNotAtPharmacy):
			response.InternalServerError(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to place order")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Order placed successfully", order)
}

// ReviewPrescription re-prices a prescription order with the items chosen by the reviewer
// @Summary Review a prescription order
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.ReviewPrescriptionRequest true "Review Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /orders/prescription-review [put]
func (h *OrderHandler) ReviewPrescription(w http.ResponseWriter, r *http.Request) {
	reviewerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.ReviewPrescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	order, err := h.orderUsecase.ReviewPrescriptionOrder(r.Context(), reviewerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyOrder),
			errors.Is(err, usecase.ErrInvalidStatus),
			errors.Is(err, service.ErrMissingLocation):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrOrderNotFound),
			errors.Is(err, service.ErrNoEligiblePharmacy),
			errors.Is(err, service.ErrProductNotAtPharmacy):
			response.NotFound(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to review prescription order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Prescription order updated successfully", order)
}

// GetAll lists orders, optionally filtered by ?status=
func (h *OrderHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orderUsecase.GetAll(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidStatus) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	order, err := h.orderUsecase.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, usecase.ErrOrderNotFound) {
			response.NotFound(w, "Order not found")
			return
		}
		response.InternalServerError(w, "Failed to get order")
		return
	}

	response.Success(w, http.StatusOK, "Order retrieved successfully", order)
}

func (h *OrderHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "user_id")
	if !ok {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	orders, err := h.orderUsecase.GetByUser(r.Context(), userID)
	if err != nil {
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) GetByPharmacy(w http.ResponseWriter, r *http.Request) {
	pharmacyID, ok := pathID(r, "pharmacy_id")
	if !ok {
		response.BadRequest(w, "Invalid pharmacy ID")
		return
	}

	orders, err := h.orderUsecase.GetByPharmacy(r.Context(), pharmacyID)
	if err != nil {
		response.InternalServerError(w, "Failed to get orders")
		return
	}

	response.Success(w, http.StatusOK, "Orders retrieved successfully", orders)
}

func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	var req dto.UpdateOrderStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.orderUsecase.UpdateStatus(r.Context(), actorID, id, &req); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidStatus):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		default:
			response.InternalServerError(w, "Failed to update order status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order status updated successfully", nil)
}

func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.GetUserIDFromContext(r.Context())
	id, ok := pathID(r, "id")
	if !ok {
		response.BadRequest(w, "Invalid order ID")
		return
	}

	if err := h.orderUsecase.DeleteOrder(r.Context(), actorID, id); err != nil {
		switch {
		case errors.Is(err, usecase.ErrDeletionNotAllowed):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrOrderNotFound):
			response.NotFound(w, "Order not found")
		default:
			response.InternalServerError(w, "Failed to delete order")
		}
		return
	}

	response.Success(w, http.StatusOK, "Order deleted successfully", nil)
}
