// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/orderdesk/backend-go/internal/api/handlers"
	"github.com/orderdesk/backend-go/internal/api/middleware"
	"github.com/orderdesk/backend-go/internal/repository"
	"github.com/orderdesk/backend-go/internal/service"
)

type Services struct {
	Staging    *service.StagingService
	Confirm    *service.ConfirmService
	Export     *service.ExportService
	Resolver   *service.ResolverService
	Orders     *service.OrderService
	Settlement *service.SettlementService

	Products  repository.ProductRepository
	Malls     repository.MallRepository
	Templates repository.TemplateRepository
	Users     repository.UserRepository
}

func NewRouter(services *Services, allowedOrigins []string, jwtSecret string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.Use(middleware.Auth(jwtSecret))

	if services != nil {
		if services.Staging != nil {
			uploadHandler := handlers.NewUploadHandler(services.Staging, services.Confirm, services.Export)
			uploadGroup := apiGroup.Group("/uploads")
			{
				uploadGroup.POST("/temp", uploadHandler.Stage)
				uploadGroup.GET("/temp", uploadHandler.ListStaged)
				uploadGroup.POST("/temp/:id/codes", uploadHandler.AssignCode)
				uploadGroup.DELETE("/temp/:id", uploadHandler.Discard)
				uploadGroup.POST("/confirm", uploadHandler.Confirm)
				uploadGroup.POST("/download", uploadHandler.Download)
			}
		}

		if services.Resolver != nil {
			productHandler := handlers.NewProductHandler(services.Resolver, services.Products)
			productGroup := apiGroup.Group("/products")
			{
				productGroup.GET("", productHandler.List)
				productGroup.GET("/resolve", productHandler.Resolve)
				productGroup.GET("/suggest", productHandler.Suggest)
			}
		}

		if services.Orders != nil {
			orderHandler := handlers.NewOrderHandler(services.Orders)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.GET("", orderHandler.List)
				orderGroup.POST("/cancel", orderHandler.Cancel)
				orderGroup.POST("/delete", orderHandler.Delete)
			}
		}

		if services.Settlement != nil {
			settlementHandler := handlers.NewSettlementHandler(services.Settlement)
			settlementGroup := apiGroup.Group("/settlements")
			{
				settlementGroup.GET("", settlementHandler.List)
				settlementGroup.POST("/refresh", settlementHandler.Refresh)
			}
		}

		if services.Malls != nil {
			mallHandler := handlers.NewMallHandler(services.Malls)
			apiGroup.GET("/malls", mallHandler.List)
		}

		if services.Users != nil {
			userHandler := handlers.NewUserHandler(services.Users)
			apiGroup.GET("/me", userHandler.Me)
		}

		if services.Templates != nil {
			templateHandler := handlers.NewTemplateHandler(services.Templates)
			apiGroup.GET("/templates", templateHandler.List)
			apiGroup.GET("/templates/:id", templateHandler.Get)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
