package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/retail/backend/internal/application/cart"
	catalogapp "github.com/retail/backend/internal/application/catalog"
	checkoutapp "github.com/retail/backend/internal/application/checkout"
	orderapp "github.com/retail/backend/internal/application/order"
	paymentapp "github.com/retail/backend/internal/application/payment"
	"github.com/retail/backend/internal/domain/shared"
	"github.com/retail/backend/internal/infrastructure/cache"
	"github.com/retail/backend/internal/infrastructure/config"
	"github.com/retail/backend/internal/infrastructure/event"
	"github.com/retail/backend/internal/infrastructure/logger"
	infrapayment "github.com/retail/backend/internal/infrastructure/payment"
	"github.com/retail/backend/internal/infrastructure/persistence"
	"github.com/retail/backend/internal/interfaces/http/handler"
	"github.com/retail/backend/internal/interfaces/http/middleware"
	"github.com/retail/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting retail backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	checkoutStore := persistence.NewGormCheckoutStore(db.DB)

	// Webhook deduplication store. Redis when reachable, otherwise an
	// in-process fallback that still dedupes within this instance.
	var idemStore shared.IdempotencyStore
	if redisStore, err := cache.NewRedisIdempotencyStore(&cfg.Redis); err != nil {
		log.Warn("Redis unavailable, using in-memory idempotency store", zap.Error(err))
		idemStore = cache.NewInMemoryIdempotencyStore()
	} else {
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
		idemStore = redisStore
	}
	defer func() {
		if err := idemStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Payment gateway
	gateway := infrapayment.NewStripeGateway(&cfg.Stripe)

	// Domain event bus with the order lifecycle audit trail
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewOrderAuditHandler(log))

	// Application services
	taxRate := decimal.NewFromFloat(cfg.Checkout.TaxRate)
	shippingFee := decimal.NewFromFloat(cfg.Checkout.ShippingFee)

	catalogService := catalogapp.NewService(productRepo, eventBus, log)
	cartService := cartapp.NewService(cartRepo, productRepo, eventBus, taxRate)
	checkoutService := checkoutapp.NewService(
		cartRepo, productRepo, checkoutStore, eventBus, log,
		taxRate, shippingFee, cfg.Checkout.OrderNumberAttempts,
	)
	orderService := orderapp.NewService(orderRepo, productRepo, eventBus, log)
	intentService := paymentapp.NewIntentService(orderRepo, gateway, log)
	webhookService := paymentapp.NewWebhookService(orderRepo, gateway, idemStore, shared.IdempotencyConfig{
		TTL:     cfg.Idempotency.TTL,
		Enabled: cfg.Idempotency.Enabled,
	}, eventBus, log)

	// HTTP handlers
	productHandler := handler.NewProductHandler(catalogService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(intentService, webhookService)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db))

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuthMiddleware(middleware.RequireUserID()),
	)
	r.Register(productHandler).
		Register(cartHandler).
		Register(checkoutHandler).
		Register(orderHandler).
		Register(paymentHandler)
	// Stripe signs webhook deliveries itself, so the webhook route stays
	// outside the identity middleware.
	r.RegisterPublic(router.RegistrarFunc(paymentHandler.RegisterWebhookRoutes))
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports liveness and database reachability
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
