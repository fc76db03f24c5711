package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/avasquez/dulceria-backend/config"
	"github.com/avasquez/dulceria-backend/internal/app/controller"
	"github.com/avasquez/dulceria-backend/internal/app/repository"
	"github.com/avasquez/dulceria-backend/internal/app/service"
	"github.com/avasquez/dulceria-backend/internal/cart"
	"github.com/avasquez/dulceria-backend/internal/db"
	"github.com/avasquez/dulceria-backend/internal/middleware"
	"github.com/avasquez/dulceria-backend/internal/router"
	"github.com/avasquez/dulceria-backend/internal/scheduler"
	"github.com/avasquez/dulceria-backend/internal/storage"
	"github.com/avasquez/dulceria-backend/internal/websocket"
	"github.com/avasquez/dulceria-backend/pkg/logger"
	"github.com/avasquez/dulceria-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Dulceria Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed baseline reference data (units, categories)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis. Guest carts fall back to in-process storage when
	// Redis is unreachable, so a failure here is not fatal.
	redisAvailable := true
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, guest carts will not survive restarts", map[string]interface{}{
			"error": err.Error(),
		})
		redisAvailable = false
	} else {
		defer func() {
			if err := redis.Close(); err != nil {
				logger.Error("Failed to close Redis connection", err)
			}
		}()
	}

	var persisterFor service.PersisterFactory
	if redisAvailable {
		persisterFor = func(token string) cart.Persister {
			return cart.NewRedisPersister(redis.GetClient(), token, cfg.Shop.GuestCartTTL)
		}
	} else {
		memoryPersisters := cart.NewMemoryPersisterCache()
		persisterFor = func(token string) cart.Persister {
			return memoryPersisters.For(token)
		}
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	variantRepo := repository.NewWeightVariantRepository(db.GetDB())
	categoryRepo := repository.NewCategoryRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	unitRepo := repository.NewUnitRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	cakeOrderRepo := repository.NewCakeOrderRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())

	// Order event feed for the back office
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize services
	var tokenBlacklist service.TokenBlacklist
	if redisAvailable {
		tokenBlacklist = redis.IsTokenBlacklisted
	}
	authService := service.NewAuthService(
		userRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
		tokenBlacklist,
	)
	productService := service.NewProductService(productRepo, variantRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	storeService := service.NewStoreService(storeRepo)
	unitService := service.NewUnitService(unitRepo)
	cartService := service.NewCartService(cartRepo, productRepo, variantRepo, cfg.Shop.FreeShippingThreshold)
	guestCartService := service.NewGuestCartService(productRepo, variantRepo, persisterFor, cfg.Shop.FreeShippingThreshold)
	orderService := service.NewOrderService(orderRepo, cartRepo, storeRepo, db.GetDB(), hub)
	cakeOrderService := service.NewCakeOrderService(cakeOrderRepo, productRepo)
	customerService := service.NewCustomerService(customerRepo)
	reportService := service.NewReportService(orderRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService, cfg.JWT.Secret)
	productController := controller.NewProductController(productService)
	categoryController := controller.NewCategoryController(categoryService)
	storeController := controller.NewStoreController(storeService)
	unitController := controller.NewUnitController(unitService)
	cartController := controller.NewCartController(cartService)
	guestCartController := controller.NewGuestCartController(guestCartService)
	orderController := controller.NewOrderController(orderService)
	cakeOrderController := controller.NewCakeOrderController(cakeOrderService)
	customerController := controller.NewCustomerController(customerService)
	uploadController := controller.NewUploadController(s3Storage)
	reportController := controller.NewReportController(reportService)
	feedController := controller.NewFeedController(hub, cfg.CORS.AllowedOrigins)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Nightly purge of abandoned server carts
	cartCleanup := scheduler.NewCartCleanupScheduler(cartRepo, cfg.Shop.StaleCartMaxAge)
	if err := cartCleanup.Start(); err != nil {
		logger.Fatal("Failed to start cart cleanup scheduler", err)
	}
	defer cartCleanup.Stop()

	// Setup router
	r := router.NewRouter(
		authController,
		productController,
		categoryController,
		storeController,
		unitController,
		cartController,
		guestCartController,
		orderController,
		cakeOrderController,
		customerController,
		uploadController,
		reportController,
		feedController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
