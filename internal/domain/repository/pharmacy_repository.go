package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
)

type PharmacyRepository interface {
	Create(ctx context.Context, pharmacy *entity.Pharmacy) error
	FindByID(ctx context.Context, id int64) (*entity.Pharmacy, error)
	FindAll(ctx context.Context, limit, offset int) ([]entity.Pharmacy, int64, error)
	// FindAllWithLocation returns every pharmacy ordered by id with its location preloaded
	FindAllWithLocation(ctx context.Context) ([]entity.Pharmacy, error)
}
