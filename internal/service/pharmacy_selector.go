package service

import (
	"context"
	"errors"
	"fmt"

	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/domain/repository"
	"farumasi-backend/pkg/geo"
)

var (
	ErrMissingLocation    = errors.New("customer location is missing or invalid")
	ErrNoEligiblePharmacy = errors.New("no pharmacy meets the requirements")
)

// Candidate is an eligible pharmacy and its distance from the customer
type Candidate struct {
	Pharmacy   entity.Pharmacy
	DistanceKm float64
}

// PharmacySelector finds the nearest pharmacy that can serve an order
type PharmacySelector interface {
	SelectNearest(ctx context.Context, origin geo.Coordinate, insurance string, items []entity.LineItem) (*Candidate, error)
}

type pharmacySelector struct {
	pharmacyRepo repository.PharmacyRepository
	productRepo  repository.ProductRepository
}

func NewPharmacySelector(pharmacyRepo repository.PharmacyRepository, productRepo repository.ProductRepository) PharmacySelector {
	return &pharmacySelector{
		pharmacyRepo: pharmacyRepo,
		productRepo:  productRepo,
	}
}

// SelectNearest keeps pharmacies that have coordinates, accept the insurance code
// and stock every requested product, then returns the closest one.
// On equal distance the pharmacy listed first (lowest id) wins.
func (s *pharmacySelector) SelectNearest(ctx context.Context, origin geo.Coordinate, insurance string, items []entity.LineItem) (*Candidate, error) {
	if !origin.Valid() {
		return nil, ErrMissingLocation
	}
	if insurance == "" {
		insurance = entity.InsuranceNone
	}

	pharmacies, err := s.pharmacyRepo.FindAllWithLocation(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pharmacies: %w", err)
	}

	productIDs := uniqueProductIDs(items)

	var best *Candidate
	for _, pharmacy := range pharmacies {
		coord, ok := pharmacy.Location.Coordinate()
		if !ok {
			continue
		}
		if !pharmacy.AcceptsInsurance(insurance) {
			continue
		}

		stocked, err := s.stocksAll(ctx, pharmacy.ID, productIDs)
		if err != nil {
			return nil, err
		}
		if !stocked {
			continue
		}

		distance := geo.Distance(origin, coord)
		if best == nil || distance < best.DistanceKm {
			best = &Candidate{Pharmacy: pharmacy, DistanceKm: distance}
		}
	}

	if best == nil {
		return nil, ErrNoEligiblePharmacy
	}
	return best, nil
}

func (s *pharmacySelector) stocksAll(ctx context.Context, pharmacyID int64, productIDs []int64) (bool, error) {
	if len(productIDs) == 0 {
		return true, nil
	}
	products, err := s.productRepo.FindByIDsAndPharmacy(ctx, productIDs, pharmacyID)
	if err != nil {
		return false, fmt.Errorf("check stock of pharmacy %d: %w", pharmacyID, err)
	}
	return len(products) == len(productIDs), nil
}

func uniqueProductIDs(items []entity.LineItem) []int64 {
	seen := make(map[int64]bool, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		if seen[item.ProductID] {
			continue
		}
		seen[item.ProductID] = true
		ids = append(ids, item.ProductID)
	}
	return ids
}
