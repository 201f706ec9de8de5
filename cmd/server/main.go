// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/api"
	"github.com/orderdesk/backend-go/internal/cache"
	"github.com/orderdesk/backend-go/internal/config"
	"github.com/orderdesk/backend-go/internal/repository/postgres"
	"github.com/orderdesk/backend-go/internal/service"
	"github.com/orderdesk/backend-go/internal/storage"
	"github.com/orderdesk/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Object storage for staged originals and template workbooks
	var store storage.ObjectStorage
	if cfg.Storage.Endpoint != "" {
		store, err = storage.NewS3Client(storage.S3Config{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err != nil {
			log.Fatalf("Failed to initialize object storage: %v", err)
		}
	} else {
		logger.Log.Warn().Msg("no storage endpoint configured, using in-memory storage")
		store = storage.NewMemoryStorage()
	}

	summaries, err := cache.NewSettlementCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("settlement cache unavailable, running without it")
		summaries = cache.NewNoopSettlementCache()
	}

	// Repositories
	products := postgres.NewProductRepository(db)
	malls := postgres.NewMallRepository(db)
	staged := postgres.NewStagedFileRepository(db)
	orders := postgres.NewOrderRepository(db)
	templates := postgres.NewTemplateRepository(db)
	settlements := postgres.NewSettlementRepository(db)
	users := postgres.NewUserRepository(db)

	// Services
	services := &api.Services{
		Staging:    service.NewStagingService(staged, malls, products, store),
		Confirm:    service.NewConfirmService(staged, orders, malls, cfg.App.CodePrefix),
		Export:     service.NewExportService(orders, templates, products, store, cfg.App.CJAllowCodes),
		Resolver:   service.NewResolverService(products),
		Orders:     service.NewOrderService(orders),
		Settlement: service.NewSettlementService(settlements, summaries),
		Products:   products,
		Malls:      malls,
		Templates:  templates,
		Users:      users,
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins, cfg.Auth.JWTSecret)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
