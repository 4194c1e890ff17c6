package http

import (
	"net/http"

	"farumasi-backend/internal/delivery/http/handler"
	"farumasi-backend/internal/delivery/http/middleware"
	"farumasi-backend/pkg/response"

	"github.com/gorilla/mux"
)

type Router struct {
	router          *mux.Router
	authHandler     *handler.AuthHandler
	orderHandler    *handler.OrderHandler
	pharmacyHandler *handler.PharmacyHandler
	productHandler  *handler.ProductHandler
	locationHandler *handler.LocationHandler
	paymentHandler  *handler.PaymentHandler
	deliveryHandler *handler.DeliveryHandler
	auditLogHandler *handler.AuditLogHandler
	authMiddleware  *middleware.AuthMiddleware
	corsMiddleware  *middleware.CORSMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	orderHandler *handler.OrderHandler,
	pharmacyHandler *handler.PharmacyHandler,
	productHandler *handler.ProductHandler,
	locationHandler *handler.LocationHandler,
	paymentHandler *handler.PaymentHandler,
	deliveryHandler *handler.DeliveryHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:          mux.NewRouter(),
		authHandler:     authHandler,
		orderHandler:    orderHandler,
		pharmacyHandler: pharmacyHandler,
		productHandler:  productHandler,
		locationHandler: locationHandler,
		paymentHandler:  paymentHandler,
		deliveryHandler: deliveryHandler,
		auditLogHandler: auditLogHandler,
		authMiddleware:  authMiddleware,
		corsMiddleware:  corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	api := r.router.PathPrefix("/api").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public routes
	public := api.NewRoute().Subrouter()
	public.HandleFunc("/auth/register", r.authHandler.Register).Methods(http.MethodPost)
	public.HandleFunc("/auth/login", r.authHandler.Login).Methods(http.MethodPost)
	public.HandleFunc("/auth/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	public.HandleFunc("/pharmacies", r.pharmacyHandler.List).Methods(http.MethodGet)
	public.HandleFunc("/pharmacies/{id:[0-9]+}", r.pharmacyHandler.Get).Methods(http.MethodGet)
	public.HandleFunc("/products", r.productHandler.GetAll).Methods(http.MethodGet)
	public.HandleFunc("/products/{id:[0-9]+}", r.productHandler.GetByID).Methods(http.MethodGet)

	// Authenticated routes
	authed := api.NewRoute().Subrouter()
	authed.Use(r.authMiddleware.Authenticate)
	authed.HandleFunc("/auth/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authed.HandleFunc("/auth/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)
	authed.HandleFunc("/auth/update-location", r.locationHandler.UpdateMine).Methods(http.MethodPut)

	authed.HandleFunc("/orders", r.orderHandler.PlaceOrder).Methods(http.MethodPost)
	authed.HandleFunc("/orders", r.orderHandler.GetAll).Methods(http.MethodGet)
	authed.HandleFunc("/orders/{id:[0-9]+}", r.orderHandler.GetByID).Methods(http.MethodGet)
	authed.HandleFunc("/orders/user/{user_id:[0-9]+}", r.orderHandler.GetByUser).Methods(http.MethodGet)
	authed.HandleFunc("/orders/pharmacy/{pharmacy_id:[0-9]+}", r.orderHandler.GetByPharmacy).Methods(http.MethodGet)

	authed.HandleFunc("/locations/user/{userId:[0-9]+}", r.locationHandler.GetByUser).Methods(http.MethodGet)
	authed.HandleFunc("/locations/pharmacy/{pharmacyId:[0-9]+}", r.locationHandler.GetByPharmacy).Methods(http.MethodGet)

	authed.HandleFunc("/payment/pay", r.paymentHandler.Pay).Methods(http.MethodPost)
	authed.HandleFunc("/payment/status/{referenceId}", r.paymentHandler.Status).Methods(http.MethodGet)

	authed.HandleFunc("/delivery/location/{orderId:[0-9]+}", r.deliveryHandler.GetLocation).Methods(http.MethodGet)
	authed.HandleFunc("/delivery/location/{orderId:[0-9]+}", r.deliveryHandler.UpdateLocation).Methods(http.MethodPut)
	authed.HandleFunc("/delivery/agent/{agentId:[0-9]+}", r.deliveryHandler.GetAgent).Methods(http.MethodGet)

	// Admin routes
	admin := api.NewRoute().Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	admin.HandleFunc("/orders/prescription-review", r.orderHandler.ReviewPrescription).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id:[0-9]+}/status", r.orderHandler.UpdateStatus).Methods(http.MethodPut)
	admin.HandleFunc("/orders/{id:[0-9]+}", r.orderHandler.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/pharmacies", r.pharmacyHandler.Register).Methods(http.MethodPost)

	admin.HandleFunc("/products", r.productHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/products/{id:[0-9]+}", r.productHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/products/{id:[0-9]+}", r.productHandler.Delete).Methods(http.MethodDelete)

	admin.HandleFunc("/locations", r.locationHandler.GetAll).Methods(http.MethodGet)
	admin.HandleFunc("/locations/update/user/{userId:[0-9]+}", r.locationHandler.UpdateByUser).Methods(http.MethodPut)
	admin.HandleFunc("/locations/update/pharmacy/{pharmacyId:[0-9]+}", r.locationHandler.UpdateByPharmacy).Methods(http.MethodPut)

	admin.HandleFunc("/delivery/active", r.deliveryHandler.ListActive).Methods(http.MethodGet)
	admin.HandleFunc("/delivery/assign/{orderId:[0-9]+}", r.deliveryHandler.AssignAgent).Methods(http.MethodPut)
	admin.HandleFunc("/delivery/agent", r.deliveryHandler.CreateAgent).Methods(http.MethodPost)

	admin.HandleFunc("/admin/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/admin/audit-logs/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	// Router middleware skips unmatched requests, so these carry CORS themselves.
	// A preflight never matches a route method, so it always ends up in one of these.
	r.router.NotFoundHandler = r.corsMiddleware.Handle(http.HandlerFunc(r.notFound))
	r.router.MethodNotAllowedHandler = r.corsMiddleware.Handle(http.HandlerFunc(r.methodNotAllowed))

	return r.router
}

func (r *Router) notFound(w http.ResponseWriter, req *http.Request) {
	response.NotFound(w, "Route not found")
}

func (r *Router) methodNotAllowed(w http.ResponseWriter, req *http.Request) {
	response.MethodNotAllowed(w, "")
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
