package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/internal/infrastructure/momo"
	"farumasi-backend/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrPaymentGateway  = errors.New("payment gateway unavailable")
	ErrPaymentNotFound = errors.New("payment not found")
)

// PaymentGateway is the mobile-money collection API
type PaymentGateway interface {
	RequestToPay(ctx context.Context, r momo.RequestToPay) error
	Status(ctx context.Context, referenceID string) (string, error)
}

type PaymentUsecase interface {
	RequestToPay(ctx context.Context, actorID int64, req *dto.PaymentRequest) (*dto.PaymentInitiatedResponse, error)
	CheckStatus(ctx context.Context, referenceID string) (*dto.PaymentStatusResponse, error)
}

type paymentUsecase struct {
	log             *logrus.Logger
	txManager       repository.TxManager
	orderRepo       repository.OrderRepository
	paymentRepo     repository.PaymentRepository
	auditService    service.AuditService
	gateway         PaymentGateway
	defaultCurrency string
}

func NewPaymentUsecase(
	log *logrus.Logger,
	txManager repository.TxManager,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	auditService service.AuditService,
	gateway PaymentGateway,
	defaultCurrency string,
) PaymentUsecase {
	if defaultCurrency == "" {
		defaultCurrency = "RWF"
	}
	return &paymentUsecase{
		log:             log,
		txManager:       txManager,
		orderRepo:       orderRepo,
		paymentRepo:     paymentRepo,
		auditService:    auditService,
		gateway:         gateway,
		defaultCurrency: defaultCurrency,
	}
}

// RequestToPay asks the payer's wallet for the amount and records a PENDING payment
func (u *paymentUsecase) RequestToPay(ctx context.Context, actorID int64, req *dto.PaymentRequest) (*dto.PaymentInitiatedResponse, error) {
	order, err := u.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		u.log.Warnf("Failed to find order by ID: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = u.defaultCurrency
	}

	payment := &entity.Payment{
		OrderID:     order.ID,
		ReferenceID: uuid.NewString(),
		Status:      entity.PaymentStatusPending,
		Amount:      req.Amount,
		Payer:       strings.TrimSpace(req.Payer),
		Currency:    currency,
	}

	err = u.gateway.RequestToPay(ctx, momo.RequestToPay{
		ReferenceID: payment.ReferenceID,
		ExternalID:  strconv.FormatInt(order.ID, 10),
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Payer:       payment.Payer,
	})
	if err != nil {
		u.log.Warnf("Failed to initiate payment: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.paymentRepo.Create(ctx, payment); err != nil {
			u.log.Warnf("Failed to create payment: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, &actorID, entity.AuditActionPaymentRequest, "payment", payment.ID, map[string]interface{}{
			"order_id":     payment.OrderID,
			"reference_id": payment.ReferenceID,
			"amount":       payment.Amount.StringFixed(2),
			"currency":     payment.Currency,
		})
	})
	if err != nil {
		u.log.Errorf("Payment %s was requested but not recorded: %+v", payment.ReferenceID, err)
		return nil, err
	}

	u.log.Infof("Payment %s requested for order %d", payment.ReferenceID, order.ID)

	return &dto.PaymentInitiatedResponse{
		ReferenceID: payment.ReferenceID,
		Status:      string(payment.Status),
	}, nil
}

// CheckStatus asks the gateway for the current status and mirrors it on the payment row
func (u *paymentUsecase) CheckStatus(ctx context.Context, referenceID string) (*dto.PaymentStatusResponse, error) {
	payment, err := u.paymentRepo.FindByReferenceID(ctx, referenceID)
	if err != nil {
		u.log.Warnf("Failed to find payment by reference: %+v", err)
		return nil, err
	}
	if payment == nil {
		return nil, ErrPaymentNotFound
	}

	remote, err := u.gateway.Status(ctx, referenceID)
	if err != nil {
		if errors.Is(err, momo.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		u.log.Warnf("Failed to check payment status: %+v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentGateway, err)
	}

	status := gatewayStatus(remote)
	if status != payment.Status {
		if err := u.paymentRepo.UpdateStatus(ctx, referenceID, status); err != nil {
			u.log.Warnf("Failed to update payment status: %+v", err)
			return nil, err
		}
		payment.Status = status
	}

	return &dto.PaymentStatusResponse{
		ReferenceID: payment.ReferenceID,
		OrderID:     payment.OrderID,
		Status:      string(payment.Status),
		Amount:      payment.Amount,
		Currency:    payment.Currency,
		Payer:       payment.Payer,
		CreatedAt:   payment.CreatedAt,
	}, nil
}

// gatewayStatus folds the gateway's terminal failure states (REJECTED, TIMEOUT, ...) into FAILED
func gatewayStatus(remote string) entity.PaymentStatus {
	switch entity.PaymentStatus(strings.ToUpper(remote)) {
	case entity.PaymentStatusSuccessful:
		return entity.PaymentStatusSuccessful
	case entity.PaymentStatusPending:
		return entity.PaymentStatusPending
	default:
		return entity.PaymentStatusFailed
	}
}
