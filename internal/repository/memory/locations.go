package memory

import (
	"context"
	"errors"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type LocationRepository struct{ store *Store }

var _ domainRepo.LocationRepository = (*LocationRepository)(nil)

func NewLocationRepository(store *Store) *LocationRepository {
	return &LocationRepository{store: store}
}

func (r *LocationRepository) Create(ctx context.Context, location *entity.Location) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("locations.create"); err != nil {
		return err
	}
	location.ID = s.nextID("locations")
	s.locations[location.ID] = *location
	return nil
}

func (r *LocationRepository) Update(ctx context.Context, location *entity.Location) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("locations.update"); err != nil {
		return err
	}
	if _, ok := s.locations[location.ID]; !ok {
		return errors.New("location does not exist")
	}
	s.locations[location.ID] = *location
	return nil
}

func (r *LocationRepository) FindByUserID(ctx context.Context, userID int64) (*entity.Location, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	return s.userLocation(userID), nil
}

func (r *LocationRepository) FindByPharmacyID(ctx context.Context, pharmacyID int64) (*entity.Location, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	return s.pharmacyLocation(pharmacyID), nil
}

func (r *LocationRepository) FindAll(ctx context.Context) ([]entity.Location, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	return sortedValues(s.locations), nil
}
