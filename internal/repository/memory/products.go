package memory

import (
	"context"
	"errors"
	"strings"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type ProductRepository struct{ store *Store }

var _ domainRepo.ProductRepository = (*ProductRepository)(nil)

func NewProductRepository(store *Store) *ProductRepository {
	return &ProductRepository{store: store}
}

func (r *ProductRepository) Create(ctx context.Context, product *entity.Product) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("products.create"); err != nil {
		return err
	}
	product.ID = s.nextID("products")
	product.CreatedAt = s.now()
	product.UpdatedAt = product.CreatedAt
	s.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) FindAll(ctx context.Context, filter entity.ProductFilter) ([]entity.Product, int64, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var matched []entity.Product
	for _, p := range sortedValues(s.products) {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.Description), search) {
			continue
		}
		if filter.RequiresPrescription != nil && p.RequiresPrescription != *filter.RequiresPrescription {
			continue
		}
		matched = append(matched, p)
	}
	return page(matched, filter.Limit, filter.Offset), int64(len(matched)), nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id int64) (*entity.Product, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	p, ok := s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, product *entity.Product) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if _, ok := s.products[product.ID]; !ok {
		return errors.New("product does not exist")
	}
	product.UpdatedAt = s.now()
	s.products[product.ID] = *product
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) (int64, error) {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if _, ok := s.products[id]; !ok {
		return 0, nil
	}
	delete(s.products, id)
	return 1, nil
}

func (r *ProductRepository) FindByIDAndPharmacy(ctx context.Context, id, pharmacyID int64) (*entity.Product, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	p, ok := s.products[id]
	if !ok || p.PharmacyID != pharmacyID {
		return nil, nil
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDsAndPharmacy(ctx context.Context, ids []int64, pharmacyID int64) ([]entity.Product, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	if err := s.failure("products.find_by_ids"); err != nil {
		return nil, err
	}
	want := make(map[int64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []entity.Product
	for _, p := range sortedValues(s.products) {
		if want[p.ID] && p.PharmacyID == pharmacyID {
			out = append(out, p)
		}
	}
	return out, nil
}
