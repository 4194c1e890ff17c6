package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"farumasi-backend/internal/delivery/dto"
	"farumasi-backend/internal/domain/entity"
	"farumasi-backend/internal/infrastructure/storage"
	"farumasi-backend/internal/repository/memory"
	"farumasi-backend/internal/service"
	"farumasi-backend/internal/usecase"
	"farumasi-backend/pkg/validator"

	"github.com/shopspring/decimal"
)

type orderEnv struct {
	handler    *OrderHandler
	store      *memory.Store
	storageDir string
	userID     int64
	productID  int64
	rxProduct  int64
}

// newOrderEnv seeds a customer at (0,0) and one pharmacy about 1.1 km away
func newOrderEnv(t *testing.T) *orderEnv {
	t.Helper()
	ctx := context.Background()
	log := quietLogger()
	store := memory.NewStore()

	users := memory.NewUserRepository(store)
	locations := memory.NewLocationRepository(store)
	pharmacies := memory.NewPharmacyRepository(store)
	products := memory.NewProductRepository(store)

	u := &entity.User{Name: "Aline", Email: "aline@example.rw", Password: "x"}
	if err := users.Create(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := locations.Create(ctx, &entity.Location{UserID: &u.ID, Latitude: 0, Longitude: 0}); err != nil {
		t.Fatalf("create user location: %v", err)
	}

	p := &entity.Pharmacy{Name: "Pharmacie Conseil", Email: "conseil@pharma.rw", Address: "KN 4 Ave"}
	if err := pharmacies.Create(ctx, p); err != nil {
		t.Fatalf("create pharmacy: %v", err)
	}
	if err := locations.Create(ctx, &entity.Location{PharmacyID: &p.ID, Latitude: 0, Longitude: 0.01}); err != nil {
		t.Fatalf("create pharmacy location: %v", err)
	}

	otc := &entity.Product{Name: "Paracetamol", Price: decimal.NewFromInt(1000), PharmacyID: p.ID}
	rx := &entity.Product{Name: "Amoxicillin", Price: decimal.NewFromInt(4000), RequiresPrescription: true, PharmacyID: p.ID}
	for _, prod := range []*entity.Product{otc, rx} {
		if err := products.Create(ctx, prod); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	auditService := service.NewAuditService(log, memory.NewAuditLogRepository(store))
	uc := usecase.NewOrderUsecase(
		log,
		memory.NewTx(store),
		memory.NewOrderRepository(store),
		memory.NewOrderItemRepository(store),
		locations,
		service.NewPharmacySelector(pharmacies, products),
		service.NewOrderPricer(products),
		auditService,
		files,
	)

	return &orderEnv{
		handler:    NewOrderHandler(uc, validator.NewValidator(), 1<<20),
		store:      store,
		storageDir: dir,
		userID:     u.ID,
		productID:  otc.ID,
		rxProduct:  rx.ID,
	}
}

func TestPlaceOrder_ItemsMultipart(t *testing.T) {
	env := newOrderEnv(t)

	r := multipartRequest(t, "/api/orders", map[string]string{
		"items":              fmt.Sprintf(`[{"product_id":%d,"quantity":2}]`, env.productID),
		"insurance_provider": "none",
	}, nil)
	rec := httptest.NewRecorder()
	env.handler.PlaceOrder(rec, asUser(r, env.userID, entity.RoleUser))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var placed dto.OrderPlacementResponse
	if err := json.Unmarshal(decode(t, rec).Data, &placed); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if placed.Status != string(entity.OrderStatusPending) || placed.Pharmacy == nil || placed.Pharmacy.Name != "Pharmacie Conseil" {
		t.Fatalf("placed = %+v", placed)
	}
	if placed.TotalPrice == nil || !placed.TotalPrice.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("total = %v, want 2000", placed.TotalPrice)
	}
	if placed.DeliveryFee == nil || *placed.DeliveryFee != 1500 {
		t.Fatalf("delivery fee = %v, want 1500", placed.DeliveryFee)
	}
}

func TestPlaceOrder_PrescriptionOnly(t *testing.T) {
	env := newOrderEnv(t)

	r := multipartRequest(t, "/api/orders", nil, &formFile{name: "scan.pdf", content: "%PDF-1.4 rx"})
	rec := httptest.NewRecorder()
	env.handler.PlaceOrder(rec, asUser(r, env.userID, entity.RoleUser))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var placed dto.OrderPlacementResponse
	if err := json.Unmarshal(decode(t, rec).Data, &placed); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if placed.Status != string(entity.OrderStatusPendingPrescriptionReview) || placed.TotalPrice != nil || placed.Pharmacy != nil {
		t.Fatalf("placed = %+v", placed)
	}

	var stored []string
	err := filepath.Walk(env.storageDir, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			stored = append(stored, path)
		}
		return err
	})
	if err != nil || len(stored) != 1 {
		t.Fatalf("stored files = %v, err %v", stored, err)
	}
	content, _ := os.ReadFile(stored[0])
	if string(content) != "%PDF-1.4 rx" {
		t.Fatalf("stored content = %q", content)
	}
}

func TestPlaceOrder_RejectsBadInput(t *testing.T) {
	env := newOrderEnv(t)
	items := fmt.Sprintf(`[{"product_id":%d,"quantity":1}]`, env.productID)

	tests := []struct {
		name   string
		fields map[string]string
		file   *formFile
		want   int
	}{
		{"neither items nor file", map[string]string{"insurance_provider": "RSSB"}, nil, http.StatusBadRequest},
		{"both items and file", map[string]string{"items": items}, &formFile{name: "rx.jpg", content: "img"}, http.StatusBadRequest},
		{"items not json", map[string]string{"items": "paracetamol x2"}, nil, http.StatusBadRequest},
		{"non-positive quantity", map[string]string{"items": fmt.Sprintf(`[{"product_id":%d,"quantity":0}]`, env.productID)}, nil, http.StatusBadRequest},
		{"prescription product", map[string]string{"items": fmt.Sprintf(`[{"product_id":%d,"quantity":1}]`, env.rxProduct)}, nil, http.StatusBadRequest},
		{"nobody stocks it", map[string]string{"items": `[{"product_id":999,"quantity":1}]`}, nil, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := multipartRequest(t, "/api/orders", tt.fields, tt.file)
			rec := httptest.NewRecorder()
			env.handler.PlaceOrder(rec, asUser(r, env.userID, entity.RoleUser))

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
			if decode(t, rec).Success {
				t.Fatal("success flag set on an error response")
			}
		})
	}
}

func TestPlaceOrder_RequiresAuthenticatedUser(t *testing.T) {
	env := newOrderEnv(t)
	r := multipartRequest(t, "/api/orders", map[string]string{"items": "[]"}, nil)
	rec := httptest.NewRecorder()
	env.handler.PlaceOrder(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestPlaceOrder_MissingLocation(t *testing.T) {
	env := newOrderEnv(t)
	r := multipartRequest(t, "/api/orders", map[string]string{
		"items": fmt.Sprintf(`[{"product_id":%d,"quantity":1}]`, env.productID),
	}, nil)
	rec := httptest.NewRecorder()
	env.handler.PlaceOrder(rec, asUser(r, 404, entity.RoleUser))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400, body %s", rec.Code, rec.Body.String())
	}
}

// stubOrderUsecase returns fixed errors so handler status mapping can be checked in isolation
type stubOrderUsecase struct {
	usecase.OrderUsecase
	err error
}

func (s *stubOrderUsecase) PlaceOrder(ctx context.Context, req *dto.PlaceOrderRequest) (*dto.OrderPlacementResponse, error) {
	return nil, s.err
}

func (s *stubOrderUsecase) ReviewPrescriptionOrder(ctx context.Context, reviewerID int64, req *dto.ReviewPrescriptionRequest) (*dto.OrderPlacementResponse, error) {
	return nil, s.err
}

func (s *stubOrderUsecase) UpdateStatus(ctx context.Context, actorID, id int64, req *dto.UpdateOrderStatusRequest) error {
	return s.err
}

func (s *stubOrderUsecase) DeleteOrder(ctx context.Context, actorID, id int64) error {
	return s.err
}

func (s *stubOrderUsecase) GetAll(ctx context.Context, status string) ([]dto.OrderResponse, error) {
	return []dto.OrderResponse{}, s.err
}

func TestOrderHandler_ErrorMapping(t *testing.T) {
	storeDown := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		call func(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder
		want int
	}{
		{"placement missing location", service.ErrMissingLocation, place, http.StatusBadRequest},
		{"placement no pharmacy", service.ErrNoEligiblePharmacy, place, http.StatusNotFound},
		{"placement product vanished", service.ErrProductNotAtPharmacy, place, http.StatusInternalServerError},
		{"placement prescription needed", usecase.ErrPrescriptionRequired, place, http.StatusBadRequest},
		{"placement store failure", storeDown, place, http.StatusInternalServerError},
		{"review unknown order", usecase.ErrOrderNotFound, review, http.StatusNotFound},
		{"review no pharmacy", service.ErrNoEligiblePharmacy, review, http.StatusNotFound},
		{"review product vanished", service.ErrProductNotAtPharmacy, review, http.StatusNotFound},
		{"review bad status", usecase.ErrInvalidStatus, review, http.StatusBadRequest},
		{"review missing location", service.ErrMissingLocation, review, http.StatusBadRequest},
		{"status not settable", usecase.ErrInvalidStatus, updateStatus, http.StatusBadRequest},
		{"status unknown order", usecase.ErrOrderNotFound, updateStatus, http.StatusNotFound},
		{"delete not allowed", usecase.ErrDeletionNotAllowed, deleteOrder, http.StatusBadRequest},
		{"delete unknown order", usecase.ErrOrderNotFound, deleteOrder, http.StatusNotFound},
		{"list bad status filter", usecase.ErrInvalidStatus, listOrders, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewOrderHandler(&stubOrderUsecase{err: tt.err}, validator.NewValidator(), 0)
			rec := tt.call(t, h)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.want, rec.Body.String())
			}
			env := decode(t, rec)
			if env.Success {
				t.Fatal("success flag set on an error response")
			}
			if errors.Is(tt.err, storeDown) && env.Message == storeDown.Error() {
				t.Fatal("store error leaked to the client")
			}
		})
	}
}

func place(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder {
	r := multipartRequest(t, "/api/orders", map[string]string{"items": `[{"product_id":1,"quantity":1}]`}, nil)
	rec := httptest.NewRecorder()
	h.PlaceOrder(rec, asUser(r, 1, entity.RoleUser))
	return rec
}

func review(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder {
	body := `{"order_id":1,"items":[{"product_id":1,"quantity":1}],"insurance_provider":"RSSB"}`
	r := httptest.NewRequest(http.MethodPut, "/api/orders/prescription-review", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ReviewPrescription(rec, asUser(r, 1, entity.RoleAdmin))
	return rec
}

func updateStatus(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPut, "/api/orders/1/status", strings.NewReader(`{"status":"approved"}`))
	rec := httptest.NewRecorder()
	h.UpdateStatus(rec, withVars(asUser(r, 1, entity.RoleAdmin), map[string]string{"id": "1"}))
	return rec
}

func deleteOrder(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodDelete, "/api/orders/1", nil)
	rec := httptest.NewRecorder()
	h.Delete(rec, withVars(asUser(r, 1, entity.RoleAdmin), map[string]string{"id": "1"}))
	return rec
}

func listOrders(t *testing.T, h *OrderHandler) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, "/api/orders?status=lost", nil)
	rec := httptest.NewRecorder()
	h.GetAll(rec, asUser(r, 1, entity.RoleAdmin))
	return rec
}
