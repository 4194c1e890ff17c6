package usecase

import (
	"context"
	"errors"

	"farumasi-backend/internal/converter"
	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/pkg/geo"

	"github.com/sirupsen/logrus"
)

var (
	ErrLocationNotFound   = errors.New("location not found")
	ErrInvalidCoordinates = errors.New("valid latitude and longitude required")
)

type LocationUsecase interface {
	UpdateByUser(ctx context.Context, userID int64, req *dto.LocationRequest) (*dto.LocationResponse, error)
	UpdateByPharmacy(ctx context.Context, pharmacyID int64, req *dto.LocationRequest) (*dto.LocationResponse, error)
	GetByUser(ctx context.Context, userID int64) (*dto.LocationResponse, error)
	GetByPharmacy(ctx context.Context, pharmacyID int64) (*dto.LocationResponse, error)
	GetAll(ctx context.Context) ([]dto.LocationResponse, error)
}

type locationUsecase struct {
	log          *logrus.Logger
	locationRepo repository.LocationRepository
}

func NewLocationUsecase(log *logrus.Logger, locationRepo repository.LocationRepository) LocationUsecase {
	return &locationUsecase{
		log:          log,
		locationRepo: locationRepo,
	}
}

func (u *locationUsecase) UpdateByUser(ctx context.Context, userID int64, req *dto.LocationRequest) (*dto.LocationResponse, error) {
	return u.update(ctx, req, func() (*entity.Location, error) {
		return u.locationRepo.FindByUserID(ctx, userID)
	})
}

func (u *locationUsecase) UpdateByPharmacy(ctx context.Context, pharmacyID int64, req *dto.LocationRequest) (*dto.LocationResponse, error) {
	return u.update(ctx, req, func() (*entity.Location, error) {
		return u.locationRepo.FindByPharmacyID(ctx, pharmacyID)
	})
}

func (u *locationUsecase) update(ctx context.Context, req *dto.LocationRequest, find func() (*entity.Location, error)) (*dto.LocationResponse, error) {
	if !validCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrInvalidCoordinates
	}

	location, err := find()
	if err != nil {
		u.log.Warnf("Failed to find location: %+v", err)
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}

	converter.ApplyLocationRequest(location, req)

	if err := u.locationRepo.Update(ctx, location); err != nil {
		u.log.Warnf("Failed to update location: %+v", err)
		return nil, err
	}

	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) GetByUser(ctx context.Context, userID int64) (*dto.LocationResponse, error) {
	location, err := u.locationRepo.FindByUserID(ctx, userID)
	if err != nil {
		u.log.Warnf("Failed to find user location: %+v", err)
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}
	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) GetByPharmacy(ctx context.Context, pharmacyID int64) (*dto.LocationResponse, error) {
	location, err := u.locationRepo.FindByPharmacyID(ctx, pharmacyID)
	if err != nil {
		u.log.Warnf("Failed to find pharmacy location: %+v", err)
		return nil, err
	}
	if location == nil {
		return nil, ErrLocationNotFound
	}
	return converter.LocationToResponse(location), nil
}

func (u *locationUsecase) GetAll(ctx context.Context) ([]dto.LocationResponse, error) {
	locations, err := u.locationRepo.FindAll(ctx)
	if err != nil {
		u.log.Warnf("Failed to find locations: %+v", err)
		return nil, err
	}
	return converter.LocationsToResponses(locations), nil
}

func validCoordinates(lat, lon *float64) bool {
	if lat == nil || lon == nil {
		return false
	}
	return geo.Coordinate{Latitude: *lat, Longitude: *lon}.Valid()
}
