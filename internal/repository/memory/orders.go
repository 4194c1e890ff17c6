package memory

import (
	"context"
	"sort"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type OrderRepository struct{ store *Store }

var _ domainRepo.OrderRepository = (*OrderRepository)(nil)

func NewOrderRepository(store *Store) *OrderRepository { return &OrderRepository{store: store} }

func (r *OrderRepository) Create(ctx context.Context, order *entity.Order) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("orders.create"); err != nil {
		return err
	}
	order.ID = s.nextID("orders")
	if order.InsuranceProvider == "" {
		order.InsuranceProvider = entity.InsuranceNone
	}
	if order.Status == "" {
		order.Status = entity.OrderStatusPending
	}
	order.CreatedAt = s.now()
	stored := *order
	stored.Items, stored.User, stored.Pharmacy = nil, nil, nil
	s.orders[order.ID] = stored
	return nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id int64) (*entity.Order, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	o, ok := s.orders[id]
	if !ok {
		return nil, nil
	}
	o.Items = s.itemsOf(id)
	s.attachParties(&o)
	return &o, nil
}

func (r *OrderRepository) FindByUserID(ctx context.Context, userID int64) ([]entity.Order, error) {
	return r.filter(ctx, false, func(o entity.Order) bool { return o.UserID == userID }), nil
}

func (r *OrderRepository) FindByPharmacyID(ctx context.Context, pharmacyID int64) ([]entity.Order, error) {
	return r.filter(ctx, false, func(o entity.Order) bool {
		return o.PharmacyID != nil && *o.PharmacyID == pharmacyID
	}), nil
}

func (r *OrderRepository) FindAll(ctx context.Context, status entity.OrderStatus) ([]entity.Order, error) {
	return r.filter(ctx, true, func(o entity.Order) bool { return status == "" || o.Status == status }), nil
}

// filter returns matching orders newest first
func (r *OrderRepository) filter(ctx context.Context, withParties bool, keep func(entity.Order) bool) []entity.Order {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	var out []entity.Order
	for _, o := range sortedValues(s.orders) {
		if !keep(o) {
			continue
		}
		if withParties {
			s.attachParties(&o)
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Store) attachParties(o *entity.Order) {
	if u, ok := s.users[o.UserID]; ok {
		o.User = &u
	}
	if o.PharmacyID != nil {
		if p, ok := s.pharmacies[*o.PharmacyID]; ok {
			o.Pharmacy = &p
		}
	}
}

func (r *OrderRepository) UpdatePricing(ctx context.Context, order *entity.Order) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("orders.update_pricing"); err != nil {
		return err
	}
	o, ok := s.orders[order.ID]
	if !ok {
		return nil
	}
	o.PharmacyID = order.PharmacyID
	o.TotalPrice = order.TotalPrice
	o.DeliveryFee = order.DeliveryFee
	o.InsuranceProvider = order.InsuranceProvider
	o.Status = order.Status
	s.orders[order.ID] = o
	return nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) (int64, error) {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	o, ok := s.orders[id]
	if !ok {
		return 0, nil
	}
	o.Status = status
	s.orders[id] = o
	return 1, nil
}

func (r *OrderRepository) AssignDeliveryAgent(ctx context.Context, id, agentID int64) (int64, error) {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	o, ok := s.orders[id]
	if !ok {
		return 0, nil
	}
	o.DeliveryAgentID = &agentID
	o.Status = entity.OrderStatusOutForDelivery
	s.orders[id] = o
	return 1, nil
}

func (r *OrderRepository) Delete(ctx context.Context, id int64) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("orders.delete"); err != nil {
		return err
	}
	delete(s.orders, id)
	return nil
}

type OrderItemRepository struct{ store *Store }

var _ domainRepo.OrderItemRepository = (*OrderItemRepository)(nil)

func NewOrderItemRepository(store *Store) *OrderItemRepository {
	return &OrderItemRepository{store: store}
}

func (r *OrderItemRepository) CreateBatch(ctx context.Context, items []entity.OrderItem) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("order_items.create"); err != nil {
		return err
	}
	for i := range items {
		items[i].ID = s.nextID("order_items")
		stored := items[i]
		stored.Product = nil
		s.orderItems[stored.ID] = stored
	}
	return nil
}

func (r *OrderItemRepository) FindByOrderID(ctx context.Context, orderID int64) ([]entity.OrderItem, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	return s.itemsOf(orderID), nil
}

func (r *OrderItemRepository) DeleteByOrderID(ctx context.Context, orderID int64) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	if err := s.failure("order_items.delete"); err != nil {
		return err
	}
	for id, it := range s.orderItems {
		if it.OrderID == orderID {
			delete(s.orderItems, id)
		}
	}
	return nil
}

func (s *Store) itemsOf(orderID int64) []entity.OrderItem {
	var out []entity.OrderItem
	for _, it := range sortedValues(s.orderItems) {
		if it.OrderID == orderID {
			out = append(out, it)
		}
	}
	return out
}
