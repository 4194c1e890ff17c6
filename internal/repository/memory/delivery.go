package memory

import (
	"context"
	"sort"
	"time"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"
)

type DeliveryRepository struct{ store *Store }

var _ domainRepo.DeliveryRepository = (*DeliveryRepository)(nil)

func NewDeliveryRepository(store *Store) *DeliveryRepository {
	return &DeliveryRepository{store: store}
}

func (r *DeliveryRepository) CreateAgent(ctx context.Context, agent *entity.DeliveryAgent) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	for _, a := range s.agents {
		if a.Phone == agent.Phone {
			return uniqueViolation("delivery_agents_phone_key")
		}
	}
	agent.ID = s.nextID("delivery_agents")
	if agent.Status == "" {
		agent.Status = entity.AgentStatusActive
	}
	agent.CreatedAt = s.now()
	agent.UpdatedAt = agent.CreatedAt
	s.agents[agent.ID] = *agent
	return nil
}

func (r *DeliveryRepository) FindAgentByID(ctx context.Context, id int64) (*entity.DeliveryAgent, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	a, ok := s.agents[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *DeliveryRepository) SaveLocation(ctx context.Context, location *entity.DeliveryLocation) error {
	s := r.store
	s.wlock(ctx)
	defer s.wunlock(ctx)
	location.ID = s.nextID("delivery_locations")
	location.UpdatedAt = s.now()
	stored := *location
	stored.Agent = nil
	s.deliveryLocations[location.ID] = stored
	return nil
}

func (r *DeliveryRepository) FindLatestLocation(ctx context.Context, orderID int64) (*entity.DeliveryLocation, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	var latest *entity.DeliveryLocation
	for _, l := range sortedValues(s.deliveryLocations) {
		if l.OrderID != orderID {
			continue
		}
		if latest == nil || !l.UpdatedAt.Before(latest.UpdatedAt) {
			l := l
			latest = &l
		}
	}
	if latest == nil {
		return nil, nil
	}
	if a, ok := s.agents[latest.AgentID]; ok {
		latest.Agent = &a
	}
	return latest, nil
}

func (r *DeliveryRepository) FindActiveDeliveries(ctx context.Context, since time.Time) ([]entity.ActiveDelivery, error) {
	s := r.store
	s.rlock(ctx)
	defer s.runlock(ctx)
	var out []entity.ActiveDelivery
	for _, l := range sortedValues(s.deliveryLocations) {
		if !l.UpdatedAt.After(since) {
			continue
		}
		o, ok := s.orders[l.OrderID]
		if !ok || !o.Status.IsInTransit() || o.PharmacyID == nil {
			continue
		}
		a, okAgent := s.agents[l.AgentID]
		u, okUser := s.users[o.UserID]
		p, okPharmacy := s.pharmacies[*o.PharmacyID]
		if !okAgent || !okUser || !okPharmacy {
			continue
		}
		out = append(out, entity.ActiveDelivery{
			OrderID:      o.ID,
			Status:       o.Status,
			CustomerName: u.Name,
			PharmacyName: p.Name,
			AgentID:      a.ID,
			AgentName:    a.Name,
			AgentPhone:   a.Phone,
			Latitude:     l.Latitude,
			Longitude:    l.Longitude,
			Accuracy:     l.Accuracy,
			Speed:        l.Speed,
			Heading:      l.Heading,
			UpdatedAt:    l.UpdatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}
