package repository

import (
	"context"
	"errors"
	"strings"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Create(product).Error
}

func (r *productRepository) FindAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := conn(ctx, r.db).Model(&entity.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("(name ILIKE ? OR description ILIKE ?)", like, like)
	}
	if filter.RequiresPrescription != nil {
		query = query.Where("requires_prescription = ?", *filter.RequiresPrescription)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Limit(filter.Limit).Offset(filter.Offset).Order("id ASC").Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *productRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).Where("id = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) Update(ctx context.Context, product *entity.Product) error {
	return conn(ctx, r.db).Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := conn(ctx, r.db).Where("id = ?", id).Delete(&entity.Product{})
	return result.RowsAffected, result.Error
}

func (r *productRepository) FindByIDAndPharmacy(ctx context.Context, id, pharmacyID int64) (*entity.Product, error) {
	var product entity.Product
	err := conn(ctx, r.db).Where("id = ? AND pharmacy_id = ?", id, pharmacyID).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) FindByIDsAndPharmacy(ctx context.Context, ids []int64, pharmacyID int64) ([]entity.Product, error) {
	var products []entity.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := conn(ctx, r.db).Where("id IN ? AND pharmacy_id = ?", ids, pharmacyID).Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}
