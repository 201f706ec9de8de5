// backend-go/cmd/ingest/main.go
package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/orderdesk/backend-go/internal/config"
	"github.com/orderdesk/backend-go/internal/domain"
	"github.com/orderdesk/backend-go/internal/ingest"
	"github.com/orderdesk/backend-go/internal/repository/postgres"
	"github.com/orderdesk/backend-go/internal/service"
	"github.com/orderdesk/backend-go/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	store, err := storage.NewS3Client(storage.S3Config{
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

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	staging := service.NewStagingService(
		postgres.NewStagedFileRepository(db),
		postgres.NewMallRepository(db),
		postgres.NewProductRepository(db),
		store,
	)

	actor := domain.Actor{
		UserID:    cfg.Ingest.UserID,
		CompanyID: cfg.Ingest.CompanyID,
	}
	ingestService := ingest.NewService(store, staging, cfg.Ingest.Prefix, actor)

	// Register routes
	r := mux.NewRouter()
	ingest.NewHandler(ingestService).RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Ingest.Port)
	log.Printf("Ingest watcher starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
