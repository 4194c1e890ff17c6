package memory

import (
	"context"
	"strings"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type PharmacyRepository struct{ store *Store }

var _ domainRepo.PharmacyRepository = (*PharmacyRepository)(nil)

func NewPharmacyRepository(store *Store) *PharmacyRepository {
	return &PharmacyRepository{store: store}
}

func (r *PharmacyRepository) Create(ctx context.Context, pharmacy *entity.Pharmacy) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("pharmacies.create"); err != nil {
		return err
	}
	for _, p := range s.pharmacies {
		if strings.EqualFold(p.Email, pharmacy.Email) {
			return uniqueViolation("pharmacies_email_key")
		}
	}
	pharmacy.ID = s.nextID("pharmacies")
	if pharmacy.IsActive == nil {
		active := true
		pharmacy.IsActive = &active
	}
	pharmacy.CreatedAt = s.now()
	pharmacy.UpdatedAt = pharmacy.CreatedAt
	stored := *pharmacy
	stored.Location = nil
	s.pharmacies[pharmacy.ID] = stored
	return nil
}

func (r *PharmacyRepository) FindByID(ctx context.Context, id int64) (*entity.Pharmacy, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	p, ok := s.pharmacies[id]
	if !ok {
		return nil, nil
	}
	p.Location = s.pharmacyLocation(id)
	return &p, nil
}

func (r *PharmacyRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.Pharmacy, int64, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	all := r.withLocations()
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *PharmacyRepository) FindAllWithLocation(ctx context.Context) ([]entity.Pharmacy, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	if err := s.failure("pharmacies.find_all"); err != nil {
		return nil, err
	}
	return r.withLocations(), nil
}

func (r *PharmacyRepository) withLocations() []entity.Pharmacy {
	all := sortedValues(r.store.pharmacies)
	for i := range all {
		all[i].Location = r.store.pharmacyLocation(all[i].ID)
	}
	return all
}
