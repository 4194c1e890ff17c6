package repository

import (
	"context"
	"errors"
	"time"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type deliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) domainRepo.DeliveryRepository {
	return &deliveryRepository{db: db}
}

func (r *deliveryRepository) CreateAgent(ctx context.Context, agent *entity.DeliveryAgent) error {
	return conn(ctx, r.db).Create(agent).Error
}

func (r *deliveryRepository) FindAgentByID(ctx context.Context, id int64) (*entity.DeliveryAgent, error) {
	var agent entity.DeliveryAgent
	err := conn(ctx, r.db).Where("id = ?", id).First(&agent).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &agent, nil
}

func (r *deliveryRepository) SaveLocation(ctx context.Context, location *entity.DeliveryLocation) error {
	return conn(ctx, r.db).Omit("Agent").Create(location).Error
}

func (r *deliveryRepository) FindLatestLocation(ctx context.Context, orderID int64) (*entity.DeliveryLocation, error) {
	var location entity.DeliveryLocation
	err := conn(ctx, r.db).
		Preload("Agent").
		Where("order_id = ?", orderID).
		Order("updated_at DESC, id DESC").
		First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *deliveryRepository) FindActiveDeliveries(ctx context.Context, since time.Time) ([]entity.ActiveDelivery, error) {
	var rows []entity.ActiveDelivery
	err := conn(ctx, r.db).
		Table("delivery_locations AS dl").
		Select(`dl.order_id, o.status, u.name AS customer_name, p.name AS pharmacy_name,
			dl.agent_id, da.name AS agent_name, da.phone AS agent_phone,
			dl.latitude, dl.longitude, dl.accuracy, dl.speed, dl.heading, dl.updated_at`).
		Joins("JOIN delivery_agents da ON dl.agent_id = da.id").
		Joins("JOIN orders o ON dl.order_id = o.id").
		Joins("JOIN users u ON o.user_id = u.id").
		Joins("JOIN pharmacies p ON o.pharmacy_id = p.id").
		Where("o.status IN ?", []entity.OrderStatus{entity.OrderStatusShipped, entity.OrderStatusOutForDelivery}).
		Where("dl.updated_at > ?", since).
		Order("dl.updated_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
