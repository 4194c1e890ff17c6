package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/infrastructure/momo"
	"farumasi-backend/internal/repository/memory"
	"farumasi-backend/internal/service"
	"farumasi-backend/pkg/jwt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fixture struct {
	store      *memory.Store
	tx         *memory.Tx
	users      *memory.UserRepository
	locations  *memory.LocationRepository
	pharmacies *memory.PharmacyRepository
	products   *memory.ProductRepository
	orders     *memory.OrderRepository
	items      *memory.OrderItemRepository
	payments   *memory.PaymentRepository
	delivery   *memory.DeliveryRepository
	auditLogs  *memory.AuditLogRepository
	audit      service.AuditService
	storage    *fakeStorage
	log        *logrus.Logger
}

func newFixture() *fixture {
	store := memory.NewStore()
	f := &fixture{
		store:      store,
		tx:         memory.NewTx(store),
		users:      memory.NewUserRepository(store),
		locations:  memory.NewLocationRepository(store),
		pharmacies: memory.NewPharmacyRepository(store),
		products:   memory.NewProductRepository(store),
		orders:     memory.NewOrderRepository(store),
		items:      memory.NewOrderItemRepository(store),
		payments:   memory.NewPaymentRepository(store),
		delivery:   memory.NewDeliveryRepository(store),
		auditLogs:  memory.NewAuditLogRepository(store),
		storage:    &fakeStorage{},
		log:        quietLogger(),
	}
	f.audit = service.NewAuditService(f.log, f.auditLogs)
	return f
}

func (f *fixture) orderUsecase() OrderUsecase {
	return NewOrderUsecase(
		f.log,
		f.tx,
		f.orders,
		f.items,
		f.locations,
		service.NewPharmacySelector(f.pharmacies, f.products),
		service.NewOrderPricer(f.products),
		f.audit,
		f.storage,
	)
}

func (f *fixture) customer(t *testing.T, email string, lat, lon float64) entity.User {
	t.Helper()
	ctx := context.Background()
	u := &entity.User{Name: "Aline", Email: email, Password: "x"}
	if err := f.users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := f.locations.Create(ctx, &entity.Location{UserID: &u.ID, Latitude: lat, Longitude: lon}); err != nil {
		t.Fatalf("create user location: %v", err)
	}
	return *u
}

func (f *fixture) pharmacy(t *testing.T, name string, lat, lon float64, insurance ...string) entity.Pharmacy {
	t.Helper()
	ctx := context.Background()
	p := &entity.Pharmacy{
		Name:              name,
		Email:             name + "@pharma.rw",
		Address:           "KG 7 Ave",
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
		Name:                 "Amoxicillin",
		Price:                decimal.RequireFromString(price),
		RequiresPrescription: requiresPrescription,
		PharmacyID:           pharmacyID,
	}
	if err := f.products.Create(context.Background(), p); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return *p
}

func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	logs, _, err := f.auditLogs.FindAll(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("list audit logs: %v", err)
	}
	actions := make([]string, 0, len(logs))
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	return actions
}

type fakeStorage struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (s *fakeStorage) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.puts == nil {
		s.puts = make(map[string][]byte)
	}
	s.puts[key] = data
	return key, nil
}

func upload(content string) *bytes.Reader {
	return bytes.NewReader([]byte(content))
}

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]int64
	err    error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]int64)}
}

func (s *fakeTokenStore) key(tokenType jwt.TokenType, tokenID string) string {
	return string(tokenType) + ":" + tokenID
}

func (s *fakeTokenStore) Store(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType, ttl time.Duration) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[s.key(tokenType, tokenID)] = userID
	return nil
}

func (s *fakeTokenStore) Exists(ctx context.Context, userID int64, tokenID string, tokenType jwt.TokenType) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	owner, ok := s.tokens[s.key(tokenType, tokenID)]
	return ok && owner == userID, nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, tokenID string, tokenType jwt.TokenType) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, s.key(tokenType, tokenID))
	return nil
}

func (s *fakeTokenStore) RevokeAll(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, owner := range s.tokens {
		if owner == userID {
			delete(s.tokens, k)
		}
	}
	return nil
}

type fakeGateway struct {
	requests  []momo.RequestToPay
	payErr    error
	status    string
	statusErr error
}

func (g *fakeGateway) RequestToPay(ctx context.Context, r momo.RequestToPay) error {
	if g.payErr != nil {
		return g.payErr
	}
	g.requests = append(g.requests, r)
	return nil
}

func (g *fakeGateway) Status(ctx context.Context, referenceID string) (string, error) {
	if g.statusErr != nil {
		return "", g.statusErr
	}
	return g.status, nil
}

var errStoreDown = errors.New("store down")
