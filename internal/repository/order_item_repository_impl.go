package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type orderItemRepository struct {
	db *gorm.DB
}

func NewOrderItemRepository(db *gorm.DB) domainRepo.OrderItemRepository {
	return &orderItemRepository{db: db}
}

func (r *orderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return conn(ctx, r.db).Omit("Product").Create(&items).Error
}

func (r *orderItemRepository) FindByOrderID(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	var items []entity.OrderItem
	if err := conn(ctx, r.db).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderItemRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	return conn(ctx, r.db).Where("order_id = ?", orderID).Delete(&entity.OrderItem{}).Error
}
