package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindByID(ctx context.Context, id int64) (*entity.Order, error)
	FindByUserID(ctx context.Context, userID int64) ([]entity.Order, error)
	FindByPharmacyID(ctx context.Context, pharmacyID int64) ([]entity.Order, error)
	FindAll(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error)
	UpdatePricing(ctx context.Context, order *entity.Order) error
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (int64, error)
	AssignDeliveryAgent(ctx context.Context, id, agentID int64) (int64, error)
	Delete(ctx context.Context, id int64) error
}

type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []entity.OrderItem) error
	FindByOrderID(ctx context.Context, orderID int64) ([]entity.OrderItem, error)
	DeleteByOrderID(ctx context.Context, orderID int64) error
}
