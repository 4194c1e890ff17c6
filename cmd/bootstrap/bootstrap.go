package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farumasi-backend/config"
	deliveryHttp "farumasi-backend/internal/delivery/http"
	"farumasi-backend/internal/delivery/http/handler"
	"farumasi-backend/internal/delivery/http/middleware"
	"farumasi-backend/internal/infrastructure/cache"
	"farumasi-backend/internal/infrastructure/database"
	"farumasi-backend/internal/infrastructure/momo"
	"farumasi-backend/internal/infrastructure/storage"
	"farumasi-backend/internal/repository"
	"farumasi-backend/internal/service"
	"farumasi-backend/internal/usecase"
	"farumasi-backend/pkg/jwt"
	"farumasi-backend/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(cfg.DB); err != nil {
			return nil, err
		}
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db
	logrus.Info("Database connected successfully")

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Prescription uploads
	objectStorage, err := storage.NewObjectStorage(context.Background(), cfg.Storage)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logrus.Infof("Upload storage driver (prescriptions, product images): %s", cfg.Storage.Driver)

	// Initialize all layers
	app.Server = initializeServer(cfg, db, redisClient, objectStorage)

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, objectStorage storage.ObjectStorage) *http.Server {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	pharmacyRepo := repository.NewPharmacyRepository(db)
	productRepo := repository.NewProductRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Initialize services
	tokenStore := service.NewRedisTokenStore(redisClient)
	auditService := service.NewAuditService(log, auditLogRepo)
	pharmacySelector := service.NewPharmacySelector(pharmacyRepo, productRepo)
	orderPricer := service.NewOrderPricer(productRepo)
	momoClient := momo.NewClient(cfg.MoMo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(log, txManager, userRepo, locationRepo, auditService, jwtService, tokenStore)
	orderUsecase := usecase.NewOrderUsecase(log, txManager, orderRepo, orderItemRepo, locationRepo, pharmacySelector, orderPricer, auditService, objectStorage)
	pharmacyUsecase := usecase.NewPharmacyUsecase(log, txManager, pharmacyRepo, locationRepo, auditService)
	productUsecase := usecase.NewProductUsecase(log, txManager, productRepo, pharmacyRepo, auditService)
	locationUsecase := usecase.NewLocationUsecase(log, locationRepo)
	paymentUsecase := usecase.NewPaymentUsecase(log, txManager, orderRepo, paymentRepo, auditService, momoClient, cfg.MoMo.Currency)
	deliveryUsecase := usecase.NewDeliveryUsecase(log, txManager, deliveryRepo, orderRepo, auditService)
	auditLogUsecase := usecase.NewAuditLogUsecase(log, auditLogRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, customValidator, jwtService)
	orderHandler := handler.NewOrderHandler(orderUsecase, customValidator, cfg.Storage.MaxUploadSize)
	pharmacyHandler := handler.NewPharmacyHandler(pharmacyUsecase, customValidator)
	productHandler := handler.NewProductHandler(productUsecase, customValidator, objectStorage, cfg.Storage.MaxUploadSize)
	locationHandler := handler.NewLocationHandler(locationUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	deliveryHandler := handler.NewDeliveryHandler(deliveryUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(auditLogUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, tokenStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigin)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		orderHandler,
		pharmacyHandler,
		productHandler,
		locationHandler,
		paymentHandler,
		deliveryHandler,
		auditLogHandler,
		authMiddleware,
		corsMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
