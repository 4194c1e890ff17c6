package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
)

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	FindAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int64, error)
	FindByID(ctx context.Context, id int64) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id int64) (int64, error)

	// Pharmacy-scoped lookups used by eligibility and pricing
	FindByIDAndPharmacy(ctx context.Context, id, pharmacyID int64) (*entity.Product, error)
	FindByIDsAndPharmacy(ctx context.Context, ids []int64, pharmacyID int64) ([]entity.Product, error)
}
