package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mercadolink/mercado_api/internal/cache"
	"github.com/mercadolink/mercado_api/internal/config"
	"github.com/mercadolink/mercado_api/internal/database"
	"github.com/mercadolink/mercado_api/internal/handler"
	"github.com/mercadolink/mercado_api/internal/middleware"
	"github.com/mercadolink/mercado_api/internal/repository"
	"github.com/mercadolink/mercado_api/internal/service"
	"github.com/mercadolink/mercado_api/internal/utils"
	"github.com/mercadolink/mercado_api/internal/worker"
	"github.com/mercadolink/mercado_api/pkg/prerender"
)

// main is the application entrypoint for the marketplace API.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting mercado api")

	utils.SetJWTSecret(cfg.JWTSecret)

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Run migrations
	if err := runMigrations(db.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	// 3c. Initialize caches
	sessionCache := cache.NewSessionCache(redisClient)
	catalogCache := cache.NewCatalogCache(redisClient)

	// 4. Initialize repositories
	authUserRepo := repository.NewAuthUserRepository(db)
	profileRepo := repository.NewAdminProfileRepository(db)
	productRepo := repository.NewProductRepository(db)
	clientRepo := repository.NewClientRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	// 5. Initialize services
	authStore := service.NewAuthStoreService(authUserRepo, sessionCache, cfg.SessionTTL)
	adminAuthSvc := service.NewAdminAuthService(authStore, profileRepo, profileRepo)
	catalogSvc := service.NewCatalogService(productRepo, catalogCache)
	clientSvc := service.NewClientService(clientRepo)
	paymentSvc := service.NewPaymentService(paymentRepo)
	adminUserSvc := service.NewAdminUserService(profileRepo)

	// 5a. Pre-render upstream client. A missing token is not fatal: the
	// proxy degrades to redirecting crawlers to the original URL.
	var renderer handler.Renderer
	if cfg.Prerender.Token != "" {
		renderer = prerender.NewClient(cfg.Prerender.BaseURL, cfg.Prerender.Token)
	} else {
		log.Error().Msg("PRERENDER_TOKEN not set - prerender proxy will always redirect")
	}

	// 6. Initialize handlers
	handlers := &Handlers{
		Health:            handler.NewHealthHandler(db, redisClient),
		Auth:              handler.NewAuthHandler(adminAuthSvc, authStore),
		Catalog:           handler.NewCatalogHandler(catalogSvc),
		ProductManagement: handler.NewProductManagementHandler(productRepo),
		Client:            handler.NewClientHandler(clientSvc),
		Payment:           handler.NewPaymentHandler(paymentSvc),
		AdminUser:         handler.NewAdminUserHandler(adminUserSvc),
		Prerender:         handler.NewPrerenderHandler(renderer),
	}

	// 7. Initialize middleware
	sessionMw := middleware.NewSessionMiddleware(authStore, profileRepo)

	// 8. Setup router
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.LoggingMiddleware())
	setupRoutes(router, handlers, sessionMw)

	// 9. Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 10. Start workers
	go worker.NewBlockExpiryWorker(profileRepo, cfg.Worker.BlockExpiryInterval).Start(ctx)
	go worker.NewSessionSweepWorker(sessionCache, profileRepo, cfg.Worker.SessionSweepInterval).Start(ctx)

	// 11. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 12. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 13. Cancel context to stop workers
	cancel()

	// 14. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Health            *handler.HealthHandler
	Auth              *handler.AuthHandler
	Catalog           *handler.CatalogHandler
	ProductManagement *handler.ProductManagementHandler
	Client            *handler.ClientHandler
	Payment           *handler.PaymentHandler
	AdminUser         *handler.AdminUserHandler
	Prerender         *handler.PrerenderHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers, sessionMw *middleware.SessionMiddleware) {
	router.GET("/v1/health", handlers.Health.GetHealth)

	// Pre-render proxy for crawlers
	router.GET("/api/prerender", handlers.Prerender.Handle)

	// Public storefront catalog
	catalog := router.Group("/v1/catalog")
	{
		catalog.GET("/products", handlers.Catalog.GetProducts)
		catalog.GET("/products/:id", handlers.Catalog.GetProduct)
	}

	// Admin routes
	admin := router.Group("/v1/admin")
	admin.POST("/auth/login", handlers.Auth.Login)
	admin.POST("/auth/logout", handlers.Auth.Logout)
	admin.Use(sessionMw.Handle())
	{
		admin.GET("/auth/session", handlers.Auth.Session)

		// Cartera (client ledger)
		admin.GET("/clients", handlers.Client.ListClients)
		admin.POST("/clients", handlers.Client.CreateClient)
		admin.GET("/clients/:id", handlers.Client.GetClient)
		admin.PUT("/clients/:id", handlers.Client.UpdateClient)

		// Payments
		admin.GET("/payments", handlers.Payment.ListPayments)
		admin.GET("/clients/:id/payments", handlers.Payment.ListClientPayments)
		admin.POST("/clients/:id/payments", handlers.Payment.CreatePayment)

		// Product Management
		admin.GET("/products", handlers.ProductManagement.ListProducts)
		admin.POST("/products", handlers.ProductManagement.CreateProduct)
		admin.GET("/products/:id", handlers.ProductManagement.GetProduct)
		admin.PUT("/products/:id", handlers.ProductManagement.UpdateProduct)
		admin.DELETE("/products/:id", middleware.RequireRole("superadmin"), handlers.ProductManagement.DeleteProduct)

		// Admin user management (superadmin only)
		users := admin.Group("/users", middleware.RequireRole("superadmin"))
		{
			users.GET("", handlers.AdminUser.ListAdmins)
			users.POST("", handlers.AdminUser.CreateAdmin)
			users.PUT("/:id/active", handlers.AdminUser.SetActive)
			users.PUT("/:id/block", handlers.AdminUser.Block)
			users.PUT("/:id/unblock", handlers.AdminUser.Unblock)
		}
	}
}

// runMigrations runs database migrations using golang-migrate.
func runMigrations(db *sql.DB) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		"file://migrations",
		"postgres", driver)
	if err != nil {
		return fmt.Errorf("could not create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
