package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"farumasi-backend/internal/domain/entity"
	domainRepo "farumasi-backend/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

// Store is an in-memory backing for every repository. It is used by tests
// and behaves like the gorm repositories: lookups miss with (nil, nil),
// unique columns fail with a PostgreSQL unique_violation.
type Store struct {
	mu  sync.RWMutex
	seq map[string]int64
	now func() time.Time

	users             map[int64]entity.User
	locations         map[int64]entity.Location
	pharmacies        map[int64]entity.Pharmacy
	products          map[int64]entity.Product
	orders            map[int64]entity.Order
	orderItems        map[int64]entity.OrderItem
	payments          map[int64]entity.Payment
	agents            map[int64]entity.DeliveryAgent
	deliveryLocations map[int64]entity.DeliveryLocation
	auditLogs         map[int64]entity.AuditLog

	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		seq:               make(map[string]int64),
		now:               func() time.Time { return time.Now().UTC() },
		users:             make(map[int64]entity.User),
		locations:         make(map[int64]entity.Location),
		pharmacies:        make(map[int64]entity.Pharmacy),
		products:          make(map[int64]entity.Product),
		orders:            make(map[int64]entity.Order),
		orderItems:        make(map[int64]entity.OrderItem),
		payments:          make(map[int64]entity.Payment),
		agents:            make(map[int64]entity.DeliveryAgent),
		deliveryLocations: make(map[int64]entity.DeliveryLocation),
		auditLogs:         make(map[int64]entity.AuditLog),
		failures:          make(map[string]error),
	}
}

// SetClock replaces the time source used for timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailOn makes the named operation (for example "order_items.create") return err
// until cleared with a nil err.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) nextID(table string) int64 {
	s.seq[table]++
	return s.seq[table]
}

// transaction-aware locking helpers
type txKey struct{}

func isTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) rlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RLock()
	}
}

func (s *Store) runlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *Store) wlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) wunlock(ctx context.Context) {
	if !isTx(ctx) {
		s.mu.Unlock()
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint, Message: "duplicate key value violates unique constraint"}
}

type snapshot struct {
	seq               map[string]int64
	users             map[int64]entity.User
	locations         map[int64]entity.Location
	pharmacies        map[int64]entity.Pharmacy
	products          map[int64]entity.Product
	orders            map[int64]entity.Order
	orderItems        map[int64]entity.OrderItem
	payments          map[int64]entity.Payment
	agents            map[int64]entity.DeliveryAgent
	deliveryLocations map[int64]entity.DeliveryLocation
	auditLogs         map[int64]entity.AuditLog
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		seq:               cloneMap(s.seq),
		users:             cloneMap(s.users),
		locations:         cloneMap(s.locations),
		pharmacies:        cloneMap(s.pharmacies),
		products:          cloneMap(s.products),
		orders:            cloneMap(s.orders),
		orderItems:        cloneMap(s.orderItems),
		payments:          cloneMap(s.payments),
		agents:            cloneMap(s.agents),
		deliveryLocations: cloneMap(s.deliveryLocations),
		auditLogs:         cloneMap(s.auditLogs),
	}
}

func (s *Store) restore(snap snapshot) {
	s.seq = snap.seq
	s.users = snap.users
	s.locations = snap.locations
	s.pharmacies = snap.pharmacies
	s.products = snap.products
	s.orders = snap.orders
	s.orderItems = snap.orderItems
	s.payments = snap.payments
	s.agents = snap.agents
	s.deliveryLocations = snap.deliveryLocations
	s.auditLogs = snap.auditLogs
}

// Tx manager holding the write lock for the whole unit of work.
// A failed unit of work is rolled back to the state it started from.
type Tx struct{ store *Store }

var _ domainRepo.TxManager = (*Tx)(nil)

func NewTx(store *Store) *Tx { return &Tx{store: store} }

func (tx *Tx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if isTx(ctx) {
		return fn(ctx)
	}
	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	snap := tx.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		tx.store.restore(snap)
		return err
	}
	return nil
}

func sortedValues[V any](m map[int64]V) []V {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]V, 0, len(ids))
	for _, id := range ids {
		out = append(out, m[id])
	}
	return out
}

func page[V any](items []V, limit, offset int) []V {
	if offset >= len(items) {
		return []V{}
	}
	if offset < 0 {
		offset = 0
	}
	end := len(items)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return items[offset:end]
}
