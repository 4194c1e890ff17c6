package repository

import (
	"context"
	"errors"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Omit("Items", "User", "Pharmacy").Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	var order entity.Order
	err := conn(ctx, r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("User").
		Preload("Pharmacy").
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByUserID(ctx context.Context, userID int64) ([]entity.Order, error) {
	var orders []entity.Order
	err := conn(ctx, r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindByPharmacyID(ctx context.Context, pharmacyID int64) ([]entity.Order, error) {
	var orders []entity.Order
	err := conn(ctx, r.db).
		Where("pharmacy_id = ?", pharmacyID).
		Order("created_at DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) FindAll(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	var orders []entity.Order
	query := conn(ctx, r.db).Preload("User").Preload("Pharmacy")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) UpdatePricing(ctx context.Context, order *entity.Order) error {
	return conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]interface{}{
			"pharmacy_id":        order.PharmacyID,
			"total_price":        order.TotalPrice,
			"delivery_fee":       order.DeliveryFee,
			"insurance_provider": order.InsuranceProvider,
			"status":             order.Status,
		}).Error
}

// UpdateStatus returns affected rows; 0 means the order does not exist
func (r *orderRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Update("status", status)
	return result.RowsAffected, result.Error
}

func (r *orderRepository) AssignDeliveryAgent(ctx context.Context, id, agentID int64) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"delivery_agent_id": agentID,
			"status":            entity.OrderStatusOutForDelivery,
		})
	return result.RowsAffected, result.Error
}

func (r *orderRepository) Delete(ctx context.Context, id int64) error {
	return conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Order{}).Error
}
