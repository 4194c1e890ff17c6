package memory

import (
	"context"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type PaymentRepository struct{ store *Store }

var _ domainRepo.PaymentRepository = (*PaymentRepository)(nil)

func NewPaymentRepository(store *Store) *PaymentRepository {
	return &PaymentRepository{store: store}
}

func (r *PaymentRepository) Create(ctx context.Context, payment *entity.Payment) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("payments.create"); err != nil {
		return err
	}
	for _, p := range s.payments {
		if p.ReferenceID == payment.ReferenceID {
			return uniqueViolation("payments_reference_id_key")
		}
	}
	payment.ID = s.nextID("payments")
	if payment.Status == "" {
		payment.Status = entity.PaymentStatusPending
	}
	payment.CreatedAt = s.now()
	s.payments[payment.ID] = *payment
	return nil
}

func (r *PaymentRepository) FindByReferenceID(ctx context.Context, referenceID string) (*entity.Payment, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	for _, p := range s.payments {
		if p.ReferenceID == referenceID {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *PaymentRepository) UpdateStatus(ctx context.Context, referenceID string, status entity.PaymentStatus) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	for id, p := range s.payments {
		if p.ReferenceID == referenceID {
			p.Status = status
			s.payments[id] = p
		}
	}
	return nil
}
