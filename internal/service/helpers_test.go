package service

import (
	"context"
	"testing"

	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/repository/memory"

	"github.com/shopspring/decimal"
)

type fixture struct {
	store      *memory.Store
	pharmacies *memory.PharmacyRepository
	locations  *memory.LocationRepository
	products   *memory.ProductRepository
}

func newFixture() *fixture {
	store := memory.NewStore()
	return &fixture{
		store:      store,
		pharmacies: memory.NewPharmacyRepository(store),
		locations:  memory.NewLocationRepository(store),
		products:   memory.NewProductRepository(store),
	}
}

func (f *fixture) pharmacy(t *testing.T, name string, lat, lon float64, insurance ...string) entity.Pharmacy {
	t.Helper()
	ctx := context.Background()
	p := &entity.Pharmacy{
		Name:              name,
		Email:             name + "@pharma.rw",
		Address:           "KN 1 Ave",
		InsuranceAccepted: entity.StringList(insurance),
	}
	if err := f.pharmacies.Create(ctx, p); err != nil {
		t.Fatalf("create pharmacy: %v", err)
	}
	if err := f.locations.Create(ctx, &entity.Location{PharmacyID: &p.ID, Latitude: lat, Longitude: lon}); err != nil {
		t.Fatalf("create pharmacy location: %v", err)
	}
	return *p
}

func (f *fixture) product(t *testing.T, pharmacyID int64, price string, requiresPrescription bool) entity.Product {
	t.Helper()
	p := &entity.Product{
		Name:                 "Paracetamol",
		Price:                decimal.RequireFromString(price),
		RequiresPrescription: requiresPrescription,
		PharmacyID:           pharmacyID,
	}
	if err := f.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return *p
}
