package main

import (
	"log"
	"net/http"
	"os"
	"strconv"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"pharmastock/internal/caching"
	"pharmastock/internal/handlers"
	"pharmastock/internal/jobs/background"
	"pharmastock/internal/middleware"
	"pharmastock/internal/models"
	"pharmastock/internal/repositories"
	"pharmastock/internal/services"
	"pharmastock/pkg/database"
)

const version = "1.0.0"

func main() {
	// Database connection
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// JWT configuration
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = random.String(32) // Generate random secret for development
		log.Printf("WARNING: Using generated JWT secret")
	}

	// Redis configuration
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}
	redisPassword := os.Getenv("REDIS_PASSWORD")
	redisDB := 0
	if redisDBStr := os.Getenv("REDIS_DB"); redisDBStr != "" {
		if db, err := strconv.Atoi(redisDBStr); err == nil {
			redisDB = db
		}
	}

	// MinIO configuration
	minioEndpoint := os.Getenv("MINIO_ENDPOINT")
	if minioEndpoint == "" {
		minioEndpoint = "localhost:9000"
	}
	minioAccessKey := os.Getenv("MINIO_ACCESS_KEY")
	if minioAccessKey == "" {
		minioAccessKey = "minioadmin"
	}
	minioSecretKey := os.Getenv("MINIO_SECRET_KEY")
	if minioSecretKey == "" {
		minioSecretKey = "minioadmin"
	}
	useSSL := os.Getenv("MINIO_USE_SSL") == "true"

	minioSvc, err := services.NewMinioService(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO service: %v", err)
	}

	// Create repositories
	itemRepo := repositories.NewProductItemRepo(pool)
	supplierRepo := repositories.NewSupplierRepo(pool)
	orderRepo := repositories.NewPurchaseOrderRepo(pool)
	userRepo := repositories.NewUserRepo(pool)

	// Create cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Create services
	itemSvc := services.NewProductItemService(itemRepo, cacheSvc)
	supplierSvc := services.NewSupplierService(supplierRepo)
	orderSvc := services.NewPurchaseOrderService(orderRepo, supplierRepo, itemRepo)
	userSvc := services.NewUserService(userRepo, cacheSvc, []byte(jwtSecret))
	reportSvc := services.NewReportService(itemSvc, minioSvc)

	// Create handlers
	itemHandlers := handlers.NewProductItemHandlers(itemSvc)
	supplierHandlers := handlers.NewSupplierHandlers(supplierSvc)
	orderHandlers := handlers.NewPurchaseOrderHandlers(orderSvc)
	userHandlers := handlers.NewUserHandlers(userSvc)
	reportHandlers := handlers.NewReportHandlers(reportSvc)

	// Background jobs
	scheduler := background.NewJobScheduler(itemSvc, itemRepo, reportSvc)
	if err := scheduler.Start(); err != nil {
		log.Printf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	e.POST("/auth/login", userHandlers.Login)

	api := e.Group("/api/v1")
	api.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
		},
	}))
	api.Use(middleware.ClaimsToContext(userSvc))

	api.POST("/auth/logout", userHandlers.Logout)

	api.GET("/product-items", itemHandlers.ListProductItems)
	api.GET("/product-items/:id", itemHandlers.GetProductItemByID)
	api.POST("/product-items", itemHandlers.CreateProductItem, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.PUT("/product-items/:id", itemHandlers.UpdateProductItem, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.DELETE("/product-items/:id", itemHandlers.DeleteProductItem, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))

	api.GET("/suppliers", supplierHandlers.ListSuppliers)
	api.GET("/suppliers/:id", supplierHandlers.GetSupplierByID)
	api.POST("/suppliers", supplierHandlers.CreateSupplier, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.PUT("/suppliers/:id", supplierHandlers.UpdateSupplier, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.DELETE("/suppliers/:id", supplierHandlers.DeleteSupplier, middleware.RequireRole(models.RoleAdmin))

	api.GET("/purchase-orders", orderHandlers.ListPurchaseOrders)
	api.GET("/purchase-orders/:id", orderHandlers.GetPurchaseOrderByID)
	api.POST("/purchase-orders", orderHandlers.CreatePurchaseOrder, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.POST("/purchase-orders/:id/receive", orderHandlers.ReceivePurchaseOrder, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.POST("/purchase-orders/:id/cancel", orderHandlers.CancelPurchaseOrder, middleware.RequireRole(models.RoleAdmin, models.RolePharmacist))
	api.DELETE("/purchase-orders/:id", orderHandlers.DeletePurchaseOrder, middleware.RequireRole(models.RoleAdmin))

	api.GET("/users", userHandlers.ListUsers, middleware.RequireRole(models.RoleAdmin))
	api.GET("/users/:id", userHandlers.GetUserByID, middleware.RequireRole(models.RoleAdmin))
	api.POST("/users", userHandlers.CreateUser, middleware.RequireRole(models.RoleAdmin))
	api.PUT("/users/:id", userHandlers.UpdateUser, middleware.RequireRole(models.RoleAdmin))
	api.DELETE("/users/:id", userHandlers.DeleteUser, middleware.RequireRole(models.RoleAdmin))

	api.GET("/reports/inventory.csv", reportHandlers.ExportInventoryCSV)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Fatal(e.Start(":" + port))
}
