package usecase

import (
	"context"
	"errors"
	"strings"

	"farumasi-backend/internal/converter"
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/internal/service"

	"github.com/sirupsen/logrus"
)

const defaultProductPageSize = 20

var (
	ErrProductNotFound = errors.New("product not found")
	ErrProductInUse    = errors.New("product is referenced by existing orders")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
)

type ProductUsecase interface {
	Create(ctx context.Context, actorID int64, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	GetAll(ctx context.Context, query dto.ProductQuery) ([]dto.ProductResponse, int64, error)
	GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error)
	Update(ctx context.Context, actorID, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error)
	Delete(ctx context.Context, actorID, id int64) error
}

type productUsecase struct {
	log          *logrus.Logger
	txManager    repository.TxManager
	productRepo  repository.ProductRepository
	pharmacyRepo repository.PharmacyRepository
	auditService service.AuditService
}

func NewProductUsecase(
	log *logrus.Logger,
	txManager repository.TxManager,
	productRepo repository.ProductRepository,
	pharmacyRepo repository.PharmacyRepository,
	auditService service.AuditService,
) ProductUsecase {
	return &productUsecase{
		log:          log,
		txManager:    txManager,
		productRepo:  productRepo,
		pharmacyRepo: pharmacyRepo,
		auditService: auditService,
	}
}

func (u *productUsecase) Create(ctx context.Context, actorID int64, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	pharmacy, err := u.pharmacyRepo.FindByID(ctx, req.PharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy by ID: %+v", err)
		return nil, err
	}
	if pharmacy == nil {
		return nil, ErrPharmacyNotFound
	}

	product := &entity.Product{
		Name:                 strings.TrimSpace(req.Name),
		Description:          strings.TrimSpace(req.Description),
		Category:             strings.TrimSpace(req.Category),
		Price:                req.Price,
		RequiresPrescription: req.RequiresPrescription,
		Image:                trimmedOrNil(req.Image),
		PharmacyID:           req.PharmacyID,
	}

	err = u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.productRepo.Create(ctx, product); err != nil {
			if isForeignKeyError(err, "pharmacy") {
				return ErrPharmacyNotFound
			}
			u.log.Warnf("Failed to create product: %+v", err)
			return err
		}
		return u.auditService.LogCreate(ctx, &actorID, entity.AuditActionProductCreate, "product", product.ID, converter.ProductToResponse(product))
	})
	if err != nil {
		return nil, err
	}

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) GetAll(ctx context.Context, query dto.ProductQuery) ([]dto.ProductResponse, int64, error) {
	if query.Limit < 1 {
		query.Limit = defaultProductPageSize
	}
	if query.Offset < 0 {
		query.Offset = 0
	}

	products, total, err := u.productRepo.FindAll(ctx, entity.ProductFilter{
		Category:             strings.TrimSpace(query.Category),
		Search:               strings.TrimSpace(query.Search),
		RequiresPrescription: query.RequiresPrescription,
		Limit:                query.Limit,
		Offset:               query.Offset,
	})
	if err != nil {
		u.log.Warnf("Failed to find products: %+v", err)
		return nil, 0, err
	}

	return converter.ProductsToResponses(products), total, nil
}

func (u *productUsecase) GetByID(ctx context.Context, id int64) (*dto.ProductResponse, error) {
	product, err := u.productRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find product by ID: %+v", err)
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	return converter.ProductToResponse(product), nil
}

func (u *productUsecase) Update(ctx context.Context, actorID, id int64, req *dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !req.Price.IsPositive() {
		return nil, ErrInvalidPrice
	}

	var updated *entity.Product
	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := u.productRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find product by ID: %+v", err)
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}
		before := converter.ProductToResponse(product)

		product.Name = strings.TrimSpace(req.Name)
		product.Description = strings.TrimSpace(req.Description)
		product.Category = strings.TrimSpace(req.Category)
		product.Price = req.Price
		product.RequiresPrescription = req.RequiresPrescription
		// An omitted image keeps the current one, an empty string clears it
		if req.Image != nil {
			product.Image = trimmedOrNil(req.Image)
		}

		if err := u.productRepo.Update(ctx, product); err != nil {
			u.log.Warnf("Failed to update product: %+v", err)
			return err
		}
		updated = product

		return u.auditService.LogUpdate(ctx, &actorID, entity.AuditActionProductUpdate, "product", id, before, converter.ProductToResponse(product))
	})
	if err != nil {
		return nil, err
	}

	return converter.ProductToResponse(updated), nil
}

func (u *productUsecase) Delete(ctx context.Context, actorID, id int64) error {
	return u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := u.productRepo.FindByID(ctx, id)
		if err != nil {
			u.log.Warnf("Failed to find product by ID: %+v", err)
			return err
		}
		if product == nil {
			return ErrProductNotFound
		}

		rows, err := u.productRepo.Delete(ctx, id)
		if err != nil {
			if isForeignKeyError(err, "product") {
				return ErrProductInUse
			}
			u.log.Warnf("Failed to delete product: %+v", err)
			return err
		}
		if rows == 0 {
			return ErrProductNotFound
		}

		return u.auditService.LogDelete(ctx, &actorID, entity.AuditActionProductDelete, "product", id, converter.ProductToResponse(product))
	})
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
