package repository

import (
	"context"

	"farumasi-backend/internal/domain/entity"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	FindByReferenceID(ctx context.Context, referenceID string) (*entity.Payment, error)
	UpdateStatus(ctx context.Context, referenceID string, status entity.PaymentStatus) error
}
