package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"farumasi-backend/internal/converter"
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/internal/service"

	"github.com/sirupsen/logrus"
)

// activeDeliveryWindow is how recent a ping must be for a delivery to count as live
const activeDeliveryWindow = time.Hour

var (
	ErrAgentNotFound            = errors.New("delivery agent not found")
	ErrAgentPhoneExists         = errors.New("delivery agent phone already exists")
	ErrDeliveryLocationNotFound = errors.New("delivery agent location not found")
)

type DeliveryUsecase interface {
	CreateAgent(ctx context.Context, req *dto.CreateAgentRequest) (*dto.AgentResponse, error)
	GetAgent(ctx context.Context, id int64) (*dto.AgentResponse, error)
	AssignAgent(ctx context.Context, actorID, orderID int64, req *dto.AssignAgentRequest) error
	UpdateAgentLocation(ctx context.Context, orderID int64, req *dto.AgentLocationRequest) (*dto.DeliveryLocationResponse, error)
	GetLatestLocation(ctx context.Context, orderID int64) (*dto.DeliveryLocationResponse, error)
	ListActiveDeliveries(ctx context.Context) ([]entity.ActiveDelivery, error)
}

type deliveryUsecase struct {
	log          *logrus.Logger
	txManager    repository.TxManager
	deliveryRepo repository.DeliveryRepository
	orderRepo    repository.OrderRepository
	auditService service.AuditService
	now          func() time.Time
}

func NewDeliveryUsecase(
	log *logrus.Logger,
	txManager repository.TxManager,
	deliveryRepo repository.DeliveryRepository,
	orderRepo repository.OrderRepository,
	auditService service.AuditService,
) DeliveryUsecase {
	return &deliveryUsecase{
		log:          log,
		txManager:    txManager,
		deliveryRepo: deliveryRepo,
		orderRepo:    orderRepo,
		auditService: auditService,
		now:          time.Now,
	}
}

func (u *deliveryUsecase) CreateAgent(ctx context.Context, req *dto.CreateAgentRequest) (*dto.AgentResponse, error) {
	status := req.Status
	if status == "" {
		status = entity.AgentStatusActive
	}

	agent := &entity.DeliveryAgent{
		Name:   strings.TrimSpace(req.Name),
		Phone:  strings.TrimSpace(req.Phone),
		Email:  strings.ToLower(strings.TrimSpace(req.Email)),
		Status: status,
	}

	if err := u.deliveryRepo.CreateAgent(ctx, agent); err != nil {
		if isDuplicateKeyError(err, "phone") {
			return nil, ErrAgentPhoneExists
		}
		u.log.Warnf("Failed to create delivery agent: %+v", err)
		return nil, err
	}

	return converter.AgentToResponse(agent), nil
}

func (u *deliveryUsecase) GetAgent(ctx context.Context, id int64) (*dto.AgentResponse, error) {
	agent, err := u.deliveryRepo.FindAgentByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find delivery agent by ID: %+v", err)
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}

	return converter.AgentToResponse(agent), nil
}

// AssignAgent hands the order to an agent and moves it to out_for_delivery
func (u *deliveryUsecase) AssignAgent(ctx context.Context, actorID, orderID int64, req *dto.AssignAgentRequest) error {
	return u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		order, err := u.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			u.log.Warnf("Failed to find order by ID: %+v", err)
			return err
		}
		if order == nil {
			return ErrOrderNotFound
		}

		agent, err := u.deliveryRepo.FindAgentByID(ctx, req.AgentID)
		if err != nil {
			u.log.Warnf("Failed to find delivery agent by ID: %+v", err)
			return err
		}
		if agent == nil {
			return ErrAgentNotFound
		}

		rows, err := u.orderRepo.AssignDeliveryAgent(ctx, orderID, agent.ID)
		if err != nil {
			if isForeignKeyError(err, "agent") {
				return ErrAgentNotFound
			}
			u.log.Warnf("Failed to assign delivery agent: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrOrderNotFound
		}

		return u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionOrderAssignAgent, "order", orderID,
			map[string]interface{}{"status": order.Status, "delivery_agent_id": order.DeliveryAgentID},
			map[string]interface{}{"status": entity.OrderStatusOutForDelivery, "delivery_agent_id": agent.ID},
		)
	})
}

func (u *deliveryUsecase) UpdateAgentLocation(ctx context.Context, orderID int64, req *dto.AgentLocationRequest) (*dto.DeliveryLocationResponse, error) {
	if !validCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	order, err := u.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find order by ID: %+v", err)
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	agent, err := u.deliveryRepo.FindAgentByID(ctx, req.AgentID)
	if err != nil {
		u.log.Warnf("Failed to find delivery agent by ID: %+v", err)
		return nil, err
	}
	if agent == nil {
		return nil, ErrAgentNotFound
	}

	location := &entity.DeliveryLocation{
		OrderID:   orderID,
		AgentID:   agent.ID,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Accuracy:  req.Accuracy,
		Speed:     req.Speed,
		Heading:   req.Heading,
	}

	if err := u.deliveryRepo.SaveLocation(ctx, location); err != nil {
		u.log.Warnf("Failed to save delivery location: %+v", err)
		return nil, err
	}
	location.Agent = agent

	return converter.DeliveryLocationToResponse(location), nil
}

func (u *deliveryUsecase) GetLatestLocation(ctx context.Context, orderID int64) (*dto.DeliveryLocationResponse, error) {
	location, err := u.deliveryRepo.FindLatestLocation(ctx, orderID)
	if err != nil {
		u.log.Warnf("Failed to find delivery location: %+v", err)
		return nil, err
	}
	if location == nil {
		return nil, ErrDeliveryLocationNotFound
	}

	return converter.DeliveryLocationToResponse(location), nil
}

func (u *deliveryUsecase) ListActiveDeliveries(ctx context.Context) ([]entity.ActiveDelivery, error) {
	deliveries, err := u.deliveryRepo.FindActiveDeliveries(ctx, u.now().Add(-activeDeliveryWindow))
	if err != nil {
		u.log.Warnf("Failed to find active deliveries: %+v", err)
		return nil, err
	}
	if deliveries == nil {
		deliveries = []entity.ActiveDelivery{}
	}
	return deliveries, nil
}
