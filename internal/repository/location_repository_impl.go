package repository

import (
	"context"
	"errors"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type locationRepository struct {
	db *gorm.DB
}

func NewLocationRepository(db *gorm.DB) domainRepo.LocationRepository {
	return &locationRepository{db: db}
}

func (r *locationRepository) Create(ctx context.Context, location *entity.Location) error {
	return conn(ctx, r.db).Create(location).Error
}

func (r *locationRepository) Update(ctx context.Context, location *entity.Location) error {
	return conn(ctx, r.db).Save(location).Error
}

func (r *locationRepository) FindByUserID(ctx context.Context, userID int64) (*entity.Location, error) {
	return r.findOne(ctx, "user_id = ?", userID)
}

func (r *locationRepository) FindByPharmacyID(ctx context.Context, pharmacyID int64) (*entity.Location, error) {
	return r.findOne(ctx, "pharmacy_id = ?", pharmacyID)
}

func (r *locationRepository) findOne(ctx context.Context, query string, arg int64) (*entity.Location, error) {
	var location entity.Location
	err := conn(ctx, r.db).Where(query, arg).Order("id ASC").First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

func (r *locationRepository) FindAll(ctx context.Context) ([]entity.Location, error) {
	var locations []entity.Location
	if err := conn(ctx, r.db).Order("id ASC").Find(&locations).Error; err != nil {
		return nil, err
	}
	return locations, nil
}
