package usecase

import (
	"context"
	"errors"
	"testing"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"

	"github.com/shopspring/decimal"
)

func TestProductUsecase_CRUD(t *testing.T) {
	f := newFixture()
	uc := NewProductUsecase(f.log, f.tx, f.products, f.pharmacies, f.audit)
	p := f.pharmacy(t, "kigali", -1.9, 30.0)

	created, err := uc.Create(context.Background(), 1, &dto.CreateProductRequest{
		Name:       "  Ibuprofen 400mg ",
		Category:   "pain",
		Price:      decimal.RequireFromString("1200.50"),
		PharmacyID: p.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Name != "Ibuprofen 400mg" {
		t.Fatalf("name not trimmed: %q", created.Name)
	}

	if _, err := uc.Create(context.Background(), 1, &dto.CreateProductRequest{
		Name: "Ghost", Price: decimal.NewFromInt(10), PharmacyID: 404,
	}); !errors.Is(err, ErrPharmacyNotFound) {
		t.Fatalf("unknown pharmacy error = %v", err)
	}
	if _, err := uc.Create(context.Background(), 1, &dto.CreateProductRequest{
		Name: "Free", Price: decimal.Zero, PharmacyID: p.ID,
	}); !errors.Is(err, ErrInvalidPrice) {
		t.Fatalf("zero price error = %v", err)
	}

	updated, err := uc.Update(context.Background(), 1, created.ID, &dto.UpdateProductRequest{
		Name:                 "Ibuprofen 400mg",
		Category:             "pain",
		Price:                decimal.NewFromInt(1500),
		RequiresPrescription: true,
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.Price.Equal(decimal.NewFromInt(1500)) || !updated.RequiresPrescription || updated.PharmacyID != p.ID {
		t.Fatalf("updated = %+v", updated)
	}

	if err := uc.Delete(context.Background(), 1, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := uc.GetByID(context.Background(), created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("GetByID after delete error = %v", err)
	}
	if err := uc.Delete(context.Background(), 1, created.ID); !errors.Is(err, ErrProductNotFound) {
		t.Fatalf("second Delete error = %v", err)
	}

	actions := f.auditActions(t)
	want := []string{entity.AuditActionProductCreate, entity.AuditActionProductUpdate, entity.AuditActionProductDelete}
	if len(actions) != len(want) {
		t.Fatalf("audit actions = %v, want %v", actions, want)
	}
}

func TestProductUsecase_GetAllFilters(t *testing.T) {
	f := newFixture()
	uc := NewProductUsecase(f.log, f.tx, f.products, f.pharmacies, f.audit)
	p := f.pharmacy(t, "kigali", -1.9, 30.0)

	for _, req := range []dto.CreateProductRequest{
		{Name: "Paracetamol", Category: "pain", Price: decimal.NewFromInt(500), PharmacyID: p.ID},
		{Name: "Amoxicillin", Category: "antibiotic", Price: decimal.NewFromInt(2000), RequiresPrescription: true, PharmacyID: p.ID},
		{Name: "Diclofenac gel", Category: "pain", Price: decimal.NewFromInt(3000), PharmacyID: p.ID},
	} {
		req := req
		if _, err := uc.Create(context.Background(), 1, &req); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	rx := true
	tests := []struct {
		name  string
		query dto.ProductQuery
		want  int
	}{
		{"all", dto.ProductQuery{}, 3},
		{"category", dto.ProductQuery{Category: "pain"}, 2},
		{"search", dto.ProductQuery{Search: "amox"}, 1},
		{"prescription only", dto.ProductQuery{RequiresPrescription: &rx}, 1},
		{"paged", dto.ProductQuery{Limit: 2, Offset: 2}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, _, err := uc.GetAll(context.Background(), tt.query)
			if err != nil {
				t.Fatalf("GetAll: %v", err)
			}
			if len(products) != tt.want {
				t.Fatalf("GetAll(%+v) = %d products, want %d", tt.query, len(products), tt.want)
			}
		})
	}
}

func TestProductUsecase_UpdateKeepsImageUnlessSent(t *testing.T) {
	f := newFixture()
	uc := NewProductUsecase(f.log, f.tx, f.products, f.pharmacies, f.audit)
	p := f.pharmacy(t, "kigali", -1.9, 30.0)
	image := "products/box.png"

	created, err := uc.Create(context.Background(), 1, &dto.CreateProductRequest{
		Name: "Zinc", Price: decimal.NewFromInt(300), Image: &image, PharmacyID: p.ID,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	kept, err := uc.Update(context.Background(), 1, created.ID, &dto.UpdateProductRequest{Name: "Zinc", Price: decimal.NewFromInt(350)})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if kept.Image == nil || *kept.Image != image {
		t.Fatalf("image after update without one = %v", kept.Image)
	}

	empty := ""
	cleared, err := uc.Update(context.Background(), 1, created.ID, &dto.UpdateProductRequest{Name: "Zinc", Price: decimal.NewFromInt(350), Image: &empty})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if cleared.Image != nil {
		t.Fatalf("image after clearing = %v", *cleared.Image)
	}
}
