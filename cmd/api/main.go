package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/billify/billify-api/internal/application/service"
	"github.com/billify/billify-api/internal/config"
	"github.com/billify/billify-api/internal/infrastructure/database"
	"github.com/billify/billify-api/internal/infrastructure/repository"
	"github.com/billify/billify-api/internal/presentation/http/handler"
	"github.com/billify/billify-api/internal/presentation/http/routes"
	"github.com/billify/billify-api/pkg/pdf"
	"github.com/billify/billify-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)

	// Initialize PDF exporter
	exporter := pdf.NewExporter(pdf.NewFpdfEngine(), cfg.Invoice.ExportTimeout)

	// Invoice presentation settings
	location, err := time.LoadLocation(cfg.Invoice.Timezone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, falling back to UTC", cfg.Invoice.Timezone)
		location = time.UTC
	}

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager)
	productService := service.NewProductService(productRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, userRepo, exporter, service.InvoiceServiceOptions{
		TaxRate:        decimal.NewFromFloat(cfg.Invoice.TaxRate),
		CurrencySymbol: cfg.Invoice.CurrencySymbol,
		Location:       location,
		IssuerName:     cfg.Invoice.IssuerName,
	})

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Product: handler.NewProductHandler(productService),
		Invoice: handler.NewInvoiceHandler(invoiceService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Start server
	addr := ":" + cfg.App.Port
	log.Printf("Starting %s on %s", cfg.App.Name, addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
