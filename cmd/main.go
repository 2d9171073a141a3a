package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"

	"invoicegen/internal/billing"
	"invoicegen/internal/caching"
	"invoicegen/internal/handlers"
	"invoicegen/internal/jobs/background"
	"invoicegen/internal/middleware"
	"invoicegen/internal/repositories"
	"invoicegen/internal/services"
	"invoicegen/pkg/database"
)

const version = "1.0.0"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found, using environment variables")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := database.NewPool(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

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

	store, err := services.NewTimesheetStore(minioEndpoint, minioAccessKey, minioSecretKey, useSSL)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}
	if err := store.EnsureBuckets(context.Background()); err != nil {
		log.Fatalf("Failed to ensure storage buckets: %v", err)
	}

	// Repositories
	companyRepo := repositories.NewCompanyRepo(pool)
	poRepo := repositories.NewPurchaseOrderRepo(pool)
	employeeRepo := repositories.NewEmployeeRepo(pool)
	invoiceRepo := repositories.NewInvoiceRepo(pool)

	// Cache service
	cacheSvc := caching.NewRedisCacheService(redisAddr, redisPassword, redisDB)

	// Services
	companySvc := services.NewCompanyService(companyRepo, poRepo)
	employeeSvc := services.NewEmployeeService(employeeRepo)
	invoiceSvc := services.NewInvoiceService(invoiceRepo, companyRepo, poRepo, employeeRepo, store, cacheSvc, billing.DefaultPolicy())

	// Handlers
	companyHandlers := handlers.NewCompanyHandlers(companySvc, employeeSvc)
	invoiceHandlers := handlers.NewInvoiceHandlers(invoiceSvc, companySvc)
	healthHandlers := handlers.NewHealthHandlers(pool)

	// Background jobs
	scheduler := background.NewJobScheduler(invoiceSvc)
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start job scheduler: %v", err)
	}
	defer scheduler.Stop()

	e := echo.New()

	// Global middleware
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())

	// Health endpoints (no auth required)
	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/health/live", healthHandlers.LivenessCheck)

	v1 := e.Group("/v1")
	v1.Use(echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(jwtSecret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(401, "Invalid token")
		},
	}))
	v1.Use(middleware.UserContext())

	// Company routes
	v1.POST("/companies", companyHandlers.CreateCompany)
	v1.GET("/companies", companyHandlers.ListCompanies)
	v1.GET("/companies/:id", companyHandlers.GetCompany)
	v1.PUT("/companies/:id/status", companyHandlers.UpdateCompanyStatus)
	v1.DELETE("/companies/:id", companyHandlers.DeleteCompany)
	v1.POST("/companies/:id/purchase-orders", companyHandlers.CreatePurchaseOrder)
	v1.GET("/companies/:id/purchase-orders", companyHandlers.ListPurchaseOrders)

	// Purchase order employee routes
	v1.GET("/purchase-orders/:id/employees", companyHandlers.ListPOEmployees)
	v1.POST("/purchase-orders/:id/employees", companyHandlers.CreateEmployee)

	// Invoice routes
	v1.POST("/invoices/generate", invoiceHandlers.GenerateInvoice)
	v1.GET("/invoices", invoiceHandlers.ListInvoices)
	v1.GET("/invoices/:id", invoiceHandlers.GetInvoice)
	v1.PUT("/invoices/:id/payment", invoiceHandlers.UpdatePayment)
	v1.GET("/invoices/:id/document", invoiceHandlers.DownloadDocument)
	v1.GET("/invoices/:id/summary-pdf", invoiceHandlers.DownloadSummaryPDF)

	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "8080"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		log.Fatalf("Invalid port %s: %v", portStr, err)
	}

	log.Printf("Invoicegen server v%s starting on port %d", version, port)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%d", port)))
}
