package usecase

import (
	"context"
	"errors"
	"strings"

	"farumasi-backend/internal/converter"
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/internal/infrastructure/storage"
	"farumasi-backend/internal/service"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrConflictingOrderMode = errors.New("provide either items or a prescription file, not both")
	ErrEmptyOrder           = errors.New("either items or a prescription file is required")
	ErrPrescriptionRequired = errors.New("one or more products require a prescription")
	ErrOrderNotFound        = errors.New("order not found")
	ErrDeletionNotAllowed   = errors.New("only pending or canceled orders can be deleted")
	ErrInvalidStatus        = errors.New("invalid status value")
)

type OrderUsecase interface {
	PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest) (*dto.OrderPlacementResponse, error)
	ReviewPrescriptionOrder(ctx context.Context, reviewerID int64, req *dto.ReviewPrescriptionRequest) (*dto.OrderPlacementResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error)
	GetByUser(ctx context.Context, userID int64) ([]dto.OrderResponse, error)
	GetByPharmacy(ctx context.Context, pharmacyID int64) ([]dto.OrderResponse, error)
	GetAll(ctx context.Context, status string) ([]dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, actorID, id int64, req *dto.UpdateOrderStatusRequest) error
	DeleteOrder(ctx context.Context, actorID, id int64) error
}

type orderUsecase struct {
	log           *logrus.Logger
	txManager     repository.TxManager
	orderRepo     repository.OrderRepository
	orderItemRepo repository.OrderItemRepository
	locationRepo  repository.LocationRepository
	selector      service.PharmacySelector
	pricer        service.OrderPricer
	auditService  service.AuditService
	storage       storage.ObjectStorage
}

func NewOrderUsecase(
	log *logrus.Logger,
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	orderItemRepo repository.OrderItemRepository,
	locationRepo repository.LocationRepository,
	selector service.PharmacySelector,
	pricer service.OrderPricer,
	auditService service.AuditService,
	objectStorage storage.ObjectStorage,
) OrderUsecase {
	return &orderUsecase{
		log:           log,
		txManager:     txManager,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		locationRepo:  locationRepo,
		selector:      selector,
		pricer:        pricer,
		auditService:  auditService,
		storage:       objectStorage,
	}
}

func (u *orderUsecase) PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest) (*dto.OrderPlacementResponse, error) {
	hasItems := len(req.Items) > 0
	hasPrescription := req.Prescription != nil

	if hasItems && hasPrescription {
		return nil, ErrConflictingOrderMode
	}
	if !hasItems && !hasPrescription {
		return nil, ErrEmptyOrder
	}

	insurance := normalizeInsurance(req.InsuranceProvider)

	if hasPrescription {
		return u.placePrescriptionOrder(ctx, req.UserID, insurance, req.Prescription)
	}

	lines := converter.LineItems(req.Items)

	candidate, quote, err := u.priceForCustomer(ctx, req.UserID, insurance, lines)
	if err != nil {
		return nil, err
	}

	if quote.RequiresPrescription() && req.Prescription == nil {
		return nil, ErrPrescriptionRequired
	}

	pharmacyID := candidate.Pharmacy.ID
	deliveryFee := quote.DeliveryFee
	order := &entity.Order{
		UserID:            req.UserID,
		PharmacyID:        &pharmacyID,
		TotalPrice:        decimal.NullDecimal{Decimal: quote.Total, Valid: true},
		DeliveryFee:       &deliveryFee,
		InsuranceProvider: insurance,
		Status:            entity.OrderStatusPending,
	}

	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.orderRepo.Create(ctx, order); err != nil {
			u.log.Warnf("Failed to create order: %+v", err)
			return err
		}

		if err := u.orderItemRepo.CreateBatch(ctx, quote.OrderItems(order.ID)); err != nil {
			u.log.Warnf("Failed to create order items: %+v", err)
			return err
		}

		return u.auditService.LogCreate(ctx, &req.UserID, entity.AuditActionOrderPlace, "order", order.ID, pricingSnapshot(order))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Order %d placed at pharmacy %d for user %d", order.ID, pharmacyID, req.UserID)

	return placementResponse(order, candidate, quote), nil
}

func (u *orderUsecase) placePrescriptionOrder(ctx context.Context, userID int64, insurance string, upload *dto.PrescriptionUpload) (*dto.OrderPlacementResponse, error) {
	ref, err := u.storage.Put(ctx, storage.PrescriptionKey(userID, upload.Filename), upload.Body, upload.ContentType)
	if err != nil {
		u.log.Warnf("Failed to store prescription file: %+v", err)
		return nil, err
	}

	order := &entity.Order{
		UserID:            userID,
		PrescriptionFile:  &ref,
		InsuranceProvider: insurance,
		Status:            entity.OrderStatusPendingPrescriptionReview,
	}

	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.orderRepo.Create(ctx, order); err != nil {
			u.log.Warnf("Failed to create prescription order: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, &userID, entity.AuditActionOrderPlace, "order", order.ID, map[string]interface{}{
			"status":            order.Status,
			"prescription_file": ref,
		})
	})
	if err != nil {
		u.log.Errorf("Prescription file %s is orphaned: %+v", ref, err)
		return nil, err
	}

	u.log.Infof("Prescription order %d placed for user %d", order.ID, userID)

	return &dto.OrderPlacementResponse{
		OrderID: order.ID,
		Status:  string(order.Status),
	}, nil
}

func (u *orderUsecase) ReviewPrescriptionOrder(ctx context.Context, reviewerID int64, req *dto.ReviewPrescriptionRequest) (*dto.OrderPlacementResponse, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	status := entity.OrderStatus(strings.TrimSpace(req.Status))
	if status == "" {
		status = entity.OrderStatusPending
	}
	// out_for_delivery belongs to agent assignment and pending_prescription_review to placement
	if !status.IsManuallySettable() {
		return nil, ErrInvalidStatus
	}

	insurance := normalizeInsurance(req.InsuranceProvider)

	order, err := u.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		u.log.Warnf("Failed to find order by ID: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	lines := converter.LineItems(req.Items)

	candidate, quote, err := u.priceForCustomer(ctx, order.UserID, insurance, lines)
	if err != nil {
		return nil, err
	}

	before := pricingSnapshot(order)

	pharmacyID := candidate.Pharmacy.ID
	deliveryFee := quote.DeliveryFee
	order.PharmacyID = &pharmacyID
	order.TotalPrice = decimal.NullDecimal{Decimal: quote.Total, Valid: true}
	order.DeliveryFee = &deliveryFee
	order.InsuranceProvider = insurance
	order.Status = status

	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.orderItemRepo.DeleteByOrderID(ctx, order.ID); err != nil {
			u.log.Warnf("Failed to delete order items: %+v", err)
			return err
		}

		if err := u.orderItemRepo.CreateBatch(ctx, quote.OrderItems(order.ID)); err != nil {
			u.log.Warnf("Failed to create order items: %+v", err)
			return err
		}

		if err := u.orderRepo.UpdatePricing(ctx, order); err != nil {
			u.log.Warnf("Failed to update order pricing: %+v", err)
			return err
		}

		return u.auditService.LogUpdate(ctx, &reviewerID, entity.AuditActionOrderReview, "order", order.ID, before, pricingSnapshot(order))
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Order %d re-priced at pharmacy %d after prescription review", order.ID, pharmacyID)

	return placementResponse(order, candidate, quote), nil
}

// priceForCustomer runs eligibility then pricing from the customer's stored location
func (u *orderUsecase) priceForCustomer(ctx context.Context, userID int64, insurance string, lines []entity.LineItem) (*service.Candidate, *service.Quote, error) {
	location, err := u.locationRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user location: %+v", err)
		return nil, nil, err
	}
	origin, ok := location.Coordinate()
	if !ok {
		return nil, nil, service.ErrMissingLocation
	}

	candidate, err := u.selector.SelectNearest(ctx, origin, insurance, lines)
	if err != nil {
		if !errors.Is(err, service.ErrNoEligiblePharmacy) && !errors.Is(err, service.ErrMissingLocation) {
			u.log.Warnf("Failed to select pharmacy: %+v", err)
		}
		return nil, nil, err
	}

	quote, err := u.pricer.Quote(ctx, candidate, lines, insurance)
	if err != nil {
		u.log.Warnf("Failed to price order: %+v", err)
		return nil, nil, err
	}

	return candidate, quote, nil
}

func (u *orderUsecase) GetByID(ctx context.Context, id int64) (*dto.OrderResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find order by ID: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	return converter.OrderToResponse(order), nil
}

func (u *orderUsecase) GetByUser(ctx context.Context, userID int64) ([]dto.OrderResponse, error) {
	orders, err := u.orderRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find orders by user: %+v", err)
		return nil, err
	}

	return converter.OrdersToResponses(orders), nil
}

func (u *orderUsecase) GetByPharmacy(ctx context.Context, pharmacyID int64) ([]dto.OrderResponse, error) {
	orders, err := u.orderRepo.FindByPharmacyID(ctx, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find orders by pharmacy: %+v", err)
		return nil, err
	}

	return converter.OrdersToResponses(orders), nil
}

func (u *orderUsecase) GetAll(ctx context.Context, status string) ([]dto.OrderResponse, error) {
	filter := entity.OrderStatus(strings.TrimSpace(status))
	if filter != "" && !filter.IsKnown() {
		return nil, ErrInvalidStatus
	}

	orders, err := u.orderRepo.FindAll(ctx, filter)
	if err != nil {
		u.log.Warnf("Failed to find orders: %+v", err)
		return nil, err
	}

	return converter.OrdersToResponses(orders), nil
}

func (u *orderUsecase) UpdateStatus(ctx context.Context, actorID, id int64, req *dto.UpdateOrderStatusRequest) error {
	status := entity.OrderStatus(strings.TrimSpace(req.Status))
	if !status.IsManuallySettable() {
		return ErrInvalidStatus
	}

	return u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := u.orderRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find order by ID: %+v", err)
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		rows, err := u.orderRepo.UpdateStatus(ctx, id, status)
		if err != nil {
			u.log.Warnf("Failed to update order status: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrOrderNotFound
		}

		return u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionOrderStatusUpdate, "order", id,
			map[string]interface{}{"status": order.Status},
			map[string]interface{}{"status": status},
		)
	})
}

func (u *orderUsecase) DeleteOrder(ctx context.Context, actorID, id int64) error {
	return u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := u.orderRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find order by ID: %+v", err)
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}
		if !order.Status.IsDeletable() {
			return ErrDeletionNotAllowed
		}

		if err := u.orderItemRepo.DeleteByOrderID(ctx, id); err != nil {
			u.log.Warnf("Failed to delete order items: %+v", err)
			return err
		}

		if err := u.orderRepo.Delete(ctx, id); err != nil {
			u.log.Warnf("Failed to delete order: %+v", err)
			return err
		}

		return u.auditService.LogDelete(ctx, &actorID, entity.AuditActionOrderDelete, "order", id, pricingSnapshot(order))
	})
}

// normalizeInsurance upper-cases an insurance code; blank means uninsured
func normalizeInsurance(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return entity.InsuranceNone
	}
	return code
}

func pricingSnapshot(order *entity.Order) map[string]interface{} {
	snapshot := map[string]interface{}{
		"status":             order.Status,
		"insurance_provider": order.InsuranceProvider,
		"pharmacy_id":        order.PharmacyID,
		"delivery_fee":       order.DeliveryFee,
		"total_price":        nil,
	}
	if order.TotalPrice.Valid {
		snapshot["total_price"] = order.TotalPrice.Decimal.StringFixed(2)
	}
	return snapshot
}

func placementResponse(order *entity.Order, candidate *service.Candidate, quote *service.Quote) *dto.OrderPlacementResponse {
	pharmacyID := candidate.Pharmacy.ID
	deliveryFee := quote.DeliveryFee
	total := quote.Total
	rate := quote.DiscountRate

	return &dto.OrderPlacementResponse{
		OrderID:    order.ID,
		Status:     string(order.Status),
		PharmacyID: &pharmacyID,
		Pharmacy: &dto.SelectedPharmacyResponse{
			ID:       pharmacyID,
			Name:     candidate.Pharmacy.Name,
			Distance: candidate.DistanceKm,
		},
		DeliveryFee:  &deliveryFee,
		TotalPrice:   &total,
		DiscountRate: &rate,
	}
}
