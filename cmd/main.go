package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookstore-service/internal/config"
	"bookstore-service/internal/events"
	"bookstore-service/internal/handlers"
	"bookstore-service/internal/importer"
	"bookstore-service/internal/metrics"
	"bookstore-service/internal/middleware"
	"bookstore-service/internal/repository"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Bookstore Catalog Import API
// @version 1.0.0
// @description Admin catalog import and read endpoints for the bookstore storefront

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey AdminCookie
// @in cookie
// @name admin_token

type categoryStore interface {
	importer.CategoryStore
	handlers.CategoryLister
}

type productStore interface {
	importer.ProductStore
	handlers.ProductLister
}

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := config.Load()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if cfg.Environment == "production" {
		logger.SetLevel(logrus.InfoLevel)
	} else {
		logger.SetLevel(logrus.DebugLevel)
	}

	readiness := map[string]func(ctx context.Context) error{}

	var (
		categories categoryStore
		products   productStore
	)
	switch cfg.StorageDriver {
	case config.StorageDriverMemory:
		logger.Warn("Using in-memory storage; data is lost on restart")
		categories = repository.NewMemoryCategoryStore()
		products = repository.NewMemoryProductStore()
	default:
		db, err := config.InitDB(cfg)
		if err != nil {
			logger.WithError(err).Fatal("Failed to connect to database")
		}
		sqlDB, err := db.DB()
		if err != nil {
			logger.WithError(err).Fatal("Failed to get database handle")
		}
		readiness["database"] = sqlDB.PingContext

		redisClient := initRedis(cfg, logger)
		if redisClient != nil {
			defer redisClient.Close()
			readiness["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		}

		categories = repository.NewCategoryRepository(db, redisClient)
		products = repository.NewProductRepository(db)
	}

	// Event publisher is optional
	var notifier handlers.ImportNotifier
	if cfg.NATSURL != "" {
		publisher, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize events publisher (continuing without event publishing)")
		} else {
			defer publisher.Close()
			notifier = publisher
			logger.Info("Events publisher initialized (NATS connected)")
		}
	} else {
		logger.Info("NATS_URL not set, skipping event publishing initialization")
	}

	m := metrics.NewMetrics("bookstore")

	engine := importer.NewEngine(categories, products, middleware.AdminGate{}, logrus.NewEntry(logger).WithField("component", "importer"))
	importHandler := handlers.NewImportHandler(engine, m, notifier, cfg.MaxUploadMB, logrus.NewEntry(logger))
	catalogHandler := handlers.NewCatalogHandler(categories, products, cfg.DefaultPageSize, cfg.MaxPageSize, logrus.NewEntry(logger))

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(m.Middleware())
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck(readiness))
	router.GET("/metrics", gin.WrapH(m.Handler()))

	api := router.Group("/api/v1")
	api.Use(middleware.AdminAuth(cfg.JWTSecret, cfg.AdminCookieName, logrus.NewEntry(logger).WithField("component", "admin_auth")))
	{
		admin := api.Group("/admin")
		{
			admin.POST("/import", importHandler.ImportProducts)
			admin.GET("/import/template", middleware.RequireAdmin(), importHandler.GetImportTemplate)
			admin.GET("/categories", middleware.RequireAdmin(), catalogHandler.GetCategories)
			admin.GET("/products", middleware.RequireAdmin(), catalogHandler.GetProducts)
		}
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.WithField("port", cfg.Port).Info("Bookstore service starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down bookstore-service...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Bookstore service stopped")
}

// initRedis returns nil when REDIS_URL is unset or unreachable; caching is then disabled.
func initRedis(cfg *config.Config, logger *logrus.Logger) *redis.Client {
	if cfg.RedisURL == "" {
		logger.Info("REDIS_URL not set, category caching disabled")
		return nil
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.WithError(err).Warn("Failed to parse Redis URL (caching disabled)")
		return nil
	}
	redisClient := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Warn("Failed to connect to Redis (caching disabled)")
		redisClient.Close()
		return nil
	}
	logger.Info("Redis connected successfully")
	return redisClient
}
