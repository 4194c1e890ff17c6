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

const defaultPharmacyPageSize = 10

var (
	ErrPharmacyNotFound    = errors.New("pharmacy not found")
	ErrPharmacyEmailExists = errors.New("pharmacy email already exists")
)

type PharmacyUsecase interface {
	Register(ctx context.Context, actorID int64, req *dto.CreatePharmacyRequest) (*dto.PharmacyResponse, error)
	List(ctx context.Context, limit, offset int) ([]dto.PharmacyResponse, int64, error)
	Get(ctx context.Context, id int64) (*dto.PharmacyResponse, error)
}

type pharmacyUsecase struct {
	log          *logrus.Logger
	txManager    repository.TxManager
	pharmacyRepo repository.PharmacyRepository
	locationRepo repository.LocationRepository
	auditService service.AuditService
}

func NewPharmacyUsecase(
	log *logrus.Logger,
	txManager repository.TxManager,
	pharmacyRepo repository.PharmacyRepository,
	locationRepo repository.LocationRepository,
	auditService service.AuditService,
) PharmacyUsecase {
	return &pharmacyUsecase{
		log:          log,
		txManager:    txManager,
		pharmacyRepo: pharmacyRepo,
		locationRepo: locationRepo,
		auditService: auditService,
	}
}

// Register creates the pharmacy and its location together
func (u *pharmacyUsecase) Register(ctx context.Context, actorID int64, req *dto.CreatePharmacyRequest) (*dto.PharmacyResponse, error) {
	if !validCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	pharmacy := &entity.Pharmacy{
		Name:              strings.TrimSpace(req.Name),
		Email:             strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:             strings.TrimSpace(req.Phone),
		Address:           strings.TrimSpace(req.Address),
		InsuranceAccepted: normalizeCodes(req.InsuranceAccepted),
		IsActive:          &isActive,
	}

	err := u.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := u.pharmacyRepo.Create(ctx, pharmacy); err != nil {
			if isDuplicateKeyError(err, "email") {
				return ErrPharmacyEmailExists
			}
			u.log.Warnf("Failed to create pharmacy: %+v", err)
			return err
		}

		location := &entity.Location{PharmacyID: &pharmacy.ID}
		converter.ApplyLocationRequest(location, &req.LocationRequest)
		if err := u.locationRepo.Create(ctx, location); err != nil {
			u.log.Warnf("Failed to create pharmacy location: %+v", err)
			return err
		}
		pharmacy.Location = location

		return u.auditService.LogCreate(ctx, &actorID, entity.AuditActionPharmacyRegister, "pharmacy", pharmacy.ID, map[string]interface{}{
			"name":               pharmacy.Name,
			"insurance_accepted": []string(pharmacy.InsuranceAccepted),
		})
	})
	if err != nil {
		return nil, err
	}

	u.log.Infof("Pharmacy %d registered", pharmacy.ID)

	return converter.PharmacyToResponse(pharmacy), nil
}

func (u *pharmacyUsecase) List(ctx context.Context, limit, offset int) ([]dto.PharmacyResponse, int64, error) {
	if limit < 1 {
		limit = defaultPharmacyPageSize
	}
	if offset < 0 {
		offset = 0
	}

	pharmacies, total, err := u.pharmacyRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to find pharmacies: %+v", err)
		return nil, 0, err
	}

	return converter.PharmaciesToResponses(pharmacies), total, nil
}

func (u *pharmacyUsecase) Get(ctx context.Context, id int64) (*dto.PharmacyResponse, error) {
	pharmacy, err := u.pharmacyRepo.FindByID(ctx, id)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy by ID: %+v", err)
		return nil, err
	}
	if pharmacy == nil {
		return nil, ErrPharmacyNotFound
	}

	return converter.PharmacyToResponse(pharmacy), nil
}
