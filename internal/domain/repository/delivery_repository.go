package repository

import (
	"context"
	"time"

	"farumasi-backend/internal/domain/entity"
)

type DeliveryRepository interface {
	CreateAgent(ctx context.Context, agent *entity.DeliveryAgent) error
	FindAgentByID(ctx context.Context, id int64) (*entity.DeliveryAgent, error)
	SaveLocation(ctx context.Context, location *entity.DeliveryLocation) error
	FindLatestLocation(ctx context.Context, orderID int64) (*entity.DeliveryLocation, error)
	// FindActiveDeliveries lists pings newer than since on in-transit orders, newest first
	FindActiveDeliveries(ctx context.Context, since time.Time) ([]entity.ActiveDelivery, error)
}
