package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
)

type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	Update(ctx context.Context, location *entity.Location) error
	FindByUserID(ctx context.Context, userID int64) (*entity.Location, error)
	FindByPharmacyID(ctx context.Context, pharmacyID int64) (*entity.Location, error)
	FindAll(ctx context.Context) ([]entity.Location, error)
}
