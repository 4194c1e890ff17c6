package repository

import (
	"context"
	"errors"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type pharmacyRepository struct {
	db *gorm.DB
}

func NewPharmacyRepository(db *gorm.DB) domainRepo.PharmacyRepository {
	return &pharmacyRepository{db: db}
}

func (r *pharmacyRepository) Create(ctx context.Context, pharmacy *entity.Pharmacy) error {
	return conn(ctx, r.db).Omit("Location").Create(pharmacy).Error
}

func (r *pharmacyRepository) FindByID(ctx context.Context, id int64) (*entity.Pharmacy, error) {
	var pharmacy entity.Pharmacy
	err := conn(ctx, r.db).Preload("Location").Where("id = ?", id).First(&pharmacy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &pharmacy, nil
}

func (r *pharmacyRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Pharmacy, int64, error) {
	var pharmacies []entity.Pharmacy
	var total int64

	db := conn(ctx, r.db)
	if err := db.Model(&entity.Pharmacy{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Location").
		Order("id ASC").
		Limit(limit).Offset(offset).
		Find(&pharmacies).Error
	if err != nil {
		return nil, 0, err
	}
	return pharmacies, total, nil
}

func (r *pharmacyRepository) FindAllWithLocation(ctx context.Context) ([]entity.Pharmacy, error) {
	var pharmacies []entity.Pharmacy
	if err := conn(ctx, r.db).Preload("Location").Order("id ASC").Find(&pharmacies).Error; err != nil {
		return nil, err
	}
	return pharmacies, nil
}
