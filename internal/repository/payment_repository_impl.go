package repository

import (
	"context"
	"errors"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) domainRepo.PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	return conn(ctx, r.db).Create(payment).Error
}

func (r *paymentRepository) FindByReferenceID(ctx context.Context, referenceID string) (*entity.Payment, error) {
	var payment entity.Payment
	err := conn(ctx, r.db).Where("reference_id = ?", referenceID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, referenceID string, status entity.PaymentStatus) error {
	return conn(ctx, r.db).Model(&entity.Payment{}).
		Where("reference_id = ?", referenceID).
		Update("status", status).Error
}
