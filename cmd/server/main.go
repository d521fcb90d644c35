package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scentvault/scentvault-backend/config"
	"github.com/scentvault/scentvault-backend/internal/app/controller"
	"github.com/scentvault/scentvault-backend/internal/app/repository"
	"github.com/scentvault/scentvault-backend/internal/app/service"
	"github.com/scentvault/scentvault-backend/internal/db"
	"github.com/scentvault/scentvault-backend/internal/middleware"
	"github.com/scentvault/scentvault-backend/internal/router"
	"github.com/scentvault/scentvault-backend/internal/scheduler"
	"github.com/scentvault/scentvault-backend/internal/storage"
	ws "github.com/scentvault/scentvault-backend/internal/websocket"
	"github.com/scentvault/scentvault-backend/pkg/logger"
	"github.com/scentvault/scentvault-backend/pkg/redis"
	"github.com/scentvault/scentvault-backend/pkg/util"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	logFormat := "json"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
		logFormat = "console"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      logFormat,
		EnableColor: logFormat == "console",
	})

	logger.Info("Starting ScentVault Backend Server", map[string]interface{}{
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

	// Seed reference taxonomy (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := util.RegisterCustomValidators(); err != nil {
		logger.Fatal("Failed to register validators", err)
	}

	// Search cache (optional)
	var searchCache service.SearchCache
	if cfg.Redis.Enabled() {
		client, err := redis.Connect(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, search cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			searchCache = redis.NewSearchCache(client, cfg.Redis.SearchCacheTTL)
			defer func() {
				if err := client.Close(); err != nil {
					logger.Error("Failed to close Redis connection", err)
				}
			}()
		}
	}

	// Object storage (optional)
	var objectStorage service.ObjectStorage
	if cfg.S3.Enabled() {
		objectStorage = storage.NewS3Storage(cfg.S3)
	} else {
		logger.Warn("AWS_S3_BUCKET not set, image uploads disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Review feed hub
	hub := ws.NewHub()
	go hub.Run(ctx)

	// Initialize repositories
	database := db.GetDB()
	userRepo := repository.NewUserRepository(database)
	brandRepo := repository.NewBrandRepository(database)
	noteRepo := repository.NewNoteRepository(database)
	fragranceRepo := repository.NewFragranceRepository(database)
	commentRepo := repository.NewCommentRepository(database)
	retailerRepo := repository.NewRetailerRepository(database)

	// Initialize services
	authService := service.NewAuthService(userRepo, cfg.Auth.AdminEmails)
	taxonomyService := service.NewTaxonomyService(brandRepo, noteRepo, searchCache)
	fragranceService := service.NewFragranceService(fragranceRepo, brandRepo, noteRepo, taxonomyService, searchCache)
	ratingService := service.NewRatingService(fragranceRepo, commentRepo)
	commentService := service.NewCommentService(commentRepo, fragranceRepo, userRepo, ratingService, hub)
	retailerService := service.NewRetailerService(retailerRepo, fragranceRepo)
	bulkService := service.NewBulkService(fragranceRepo, ratingService, searchCache)
	importService := service.NewImportService(fragranceRepo, taxonomyService, searchCache)
	uploadService := service.NewUploadService(objectStorage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, cfg.Auth.Issuer, authService)
	rateLimiter := middleware.NewRateLimiter(cfg.RateLimit.CommentsPerMinute)

	// Background maintenance
	maintenance := scheduler.NewMaintenanceScheduler(ratingService, rateLimiter, cfg.Scheduler.RatingRepairCron)
	if err := maintenance.Start(); err != nil {
		logger.Fatal("Failed to start maintenance scheduler", err)
	}

	// Setup router
	r := router.NewRouter(
		router.Controllers{
			Auth:        controller.NewAuthController(authService, uploadService),
			Fragrance:   controller.NewFragranceController(fragranceService),
			Comment:     controller.NewCommentController(commentService),
			Taxonomy:    controller.NewTaxonomyController(taxonomyService),
			Retailer:    controller.NewRetailerController(retailerService),
			Maintenance: controller.NewMaintenanceController(bulkService, importService),
			Upload:      controller.NewUploadController(uploadService),
			Feed:        controller.NewFeedController(hub, fragranceService, cfg.CORS.AllowedOrigins),
		},
		authMiddleware,
		rateLimiter,
		cfg,
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: r.Setup(),
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started successfully", map[string]interface{}{
			"address": srv.Addr,
			"pid":     os.Getpid(),
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")

	maintenance.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", err)
	}

	// closes remaining feed connections
	cancel()

	logger.Info("Server stopped successfully")
}
