package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	cartapp "github.com/marketplace/backend/internal/application/cart"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	identityapp "github.com/marketplace/backend/internal/application/identity"
	orderapp "github.com/marketplace/backend/internal/application/order"
	"github.com/marketplace/backend/internal/domain/identity"
	"github.com/marketplace/backend/internal/domain/payment"
	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/auth"
	"github.com/marketplace/backend/internal/infrastructure/cache"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"github.com/marketplace/backend/internal/infrastructure/logger"
	"github.com/marketplace/backend/internal/infrastructure/notification"
	infrapayment "github.com/marketplace/backend/internal/infrastructure/payment"
	"github.com/marketplace/backend/internal/infrastructure/persistence"
	"github.com/marketplace/backend/internal/interfaces/http/handler"
	"github.com/marketplace/backend/internal/interfaces/http/middleware"
	"github.com/marketplace/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting marketplace backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection
	gormLogLevel := gormlogger.Warn
	if cfg.Log.Level == "debug" {
		gormLogLevel = gormlogger.Info
	}
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	accountRepo := persistence.NewGormAccountRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	cartRepo := persistence.NewGormCartItemRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize infrastructure services
	jwtService := auth.NewJWTService(cfg.JWT)

	idempotencyStore, err := cache.NewIdempotencyStoreFactory(&cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.IsProduction()),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	mailer, err := notification.NewMailer(&cfg.SMTP, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Initialize payment gateways
	esewaGateway, err := infrapayment.NewEsewaAdapter(&cfg.Esewa)
	if err != nil {
		log.Fatal("Failed to initialize eSewa gateway", zap.Error(err))
	}
	stripeGateway, err := infrapayment.NewStripeAdapter(&cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize Stripe gateway", zap.Error(err))
	}
	gateways := payment.NewRegistry(esewaGateway, stripeGateway)

	// Initialize application services
	authService := identityapp.NewAuthService(accountRepo, jwtService, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, log)
	cartService := cartapp.NewCartService(cartRepo, productRepo, log)
	checkoutService := orderapp.NewCheckoutService(cartRepo, productRepo, orderRepo, txScope, gateways, cfg.App.Currency, log)
	orderService := orderapp.NewOrderService(orderRepo, paymentRepo, productRepo, log)
	settlementService := orderapp.NewSettlementService(gateways, txScope, idempotencyStore, shared.DefaultIdempotencyConfig(), mailer, log)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	categoryHandler := handler.NewCategoryHandler(categoryService)
	productHandler := handler.NewProductHandler(productService)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	orderHandler := handler.NewOrderHandler(orderService)
	callbackHandler := handler.NewPaymentCallbackHandler(settlementService)
	stripeWebhookHandler := handler.NewStripeWebhookHandler(settlementService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware stack, in order:
	// RequestID -> Recovery -> RequestLogger -> Secure -> CORS -> BodyLimit
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Recovery(log))
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	engine.Use(middleware.CORSWithConfig(corsConfig))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", systemHandler.Health)

	// Payment gateway callback endpoints. These are called directly by
	// external gateways and authenticate via signature, not JWT. The
	// tenant travels in the redirect URL or a header.
	callbackGroup := engine.Group("/api/v1/payment/callback")
	callbackGroup.Use(middleware.TenantMiddleware())
	callbackGroup.GET("/esewa", callbackHandler.HandleEsewaCallback)
	callbackGroup.POST("/esewa", callbackHandler.HandleEsewaCallback)

	webhookGroup := engine.Group("/api/v1/webhooks")
	webhookGroup.Use(middleware.TenantMiddleware())
	webhookGroup.POST("/stripe", stripeWebhookHandler.HandleStripeWebhook)

	authn := middleware.JWTAuthMiddleware(jwtService, log)
	tenant := middleware.TenantMiddleware()
	sellerOnly := middleware.RequireRole(string(identity.RoleSeller), string(identity.RoleAdmin))
	adminOnly := middleware.RequireRole(string(identity.RoleAdmin))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Auth domain: registration and login are public, profile requires
	// authentication
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.Use(tenant)
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	r.Register(authRoutes)

	profileRoutes := router.NewDomainGroup("profile", "/profile")
	profileRoutes.Use(authn, tenant)
	profileRoutes.GET("", authHandler.GetProfile)
	profileRoutes.PUT("", authHandler.UpdateProfile)
	profileRoutes.PUT("/password", authHandler.ChangePassword)
	r.Register(profileRoutes)

	// Public storefront: browsing needs no account
	storefrontRoutes := router.NewDomainGroup("storefront", "/catalog")
	storefrontRoutes.Use(tenant)
	storefrontRoutes.GET("/products", productHandler.Browse)
	storefrontRoutes.GET("/products/:slug", productHandler.Get)
	storefrontRoutes.GET("/categories", categoryHandler.List)
	storefrontRoutes.GET("/categories/:slug", categoryHandler.Get)
	r.Register(storefrontRoutes)

	// Seller listing management
	sellerRoutes := router.NewDomainGroup("seller", "/seller")
	sellerRoutes.Use(authn, tenant, sellerOnly)
	sellerRoutes.POST("/products", productHandler.CreateListing)
	sellerRoutes.PUT("/products/:id", productHandler.Update)
	sellerRoutes.DELETE("/products/:id", productHandler.Delete)
	r.Register(sellerRoutes)

	// Admin moderation and category management
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(authn, tenant, adminOnly)
	adminRoutes.POST("/products/:id/approve", productHandler.Approve)
	adminRoutes.PUT("/products/:id/feature", productHandler.Feature)
	adminRoutes.POST("/categories", categoryHandler.Create)
	adminRoutes.PUT("/categories/:id", categoryHandler.Update)
	adminRoutes.DELETE("/categories/:id", categoryHandler.Delete)
	r.Register(adminRoutes)

	// Cart
	cartRoutes := router.NewDomainGroup("cart", "/cart")
	cartRoutes.Use(authn, tenant)
	cartRoutes.GET("", cartHandler.Get)
	cartRoutes.POST("/items", cartHandler.Add)
	cartRoutes.PUT("/items/:id/increment", cartHandler.Increment)
	cartRoutes.PUT("/items/:id/decrement", cartHandler.Decrement)
	cartRoutes.DELETE("/items/:id", cartHandler.Remove)
	r.Register(cartRoutes)

	// Checkout and orders
	checkoutRoutes := router.NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.Use(authn, tenant)
	checkoutRoutes.POST("/orders", checkoutHandler.PlaceOrder)
	checkoutRoutes.POST("/orders/:id/payment", checkoutHandler.InitiatePayment)
	checkoutRoutes.POST("/orders/:id/cancel", checkoutHandler.CancelOrder)
	r.Register(checkoutRoutes)

	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.Use(authn, tenant)
	orderRoutes.GET("", orderHandler.ListOrders)
	orderRoutes.GET("/complete", orderHandler.GetCompletedReceipt)
	orderRoutes.GET("/:id", orderHandler.GetReceipt)
	orderRoutes.PUT("/:id/items/:itemId/delivery", orderHandler.UpdateDeliveryStatus)
	r.Register(orderRoutes)

	// System
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/health", systemHandler.Health)
	r.Register(systemRoutes)

	r.Setup()

	// Start HTTP server
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}
