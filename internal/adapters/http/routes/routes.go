package routes

import (
	"creditline/internal/adapters/http/handlers"
	"creditline/internal/adapters/http/middleware"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/config"
	"creditline/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	customerRepo := repositories.NewCustomerRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	installmentRepo := repositories.NewInstallmentRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	transactor := repositories.NewTransactor(db)

	// Services
	notifyService := services.NewNotificationService(cfg)
	authService := services.NewAuthService(userRepo, cfg)
	customerService := services.NewCustomerService(customerRepo, transactionRepo, transactor)
	loanService := services.NewLoanService(loanRepo, customerRepo, installmentRepo, transactionRepo, transactor, notifyService)
	installmentService := services.NewInstallmentService(installmentRepo, loanRepo, transactionRepo, transactor, notifyService)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	customerHandler := handlers.NewCustomerHandler(customerService)
	loanHandler := handlers.NewLoanHandler(loanService)
	installmentHandler := handlers.NewInstallmentHandler(installmentService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)

	// Customer routes
	customerRoutes := apiV1.Group("/customers")
	customerRoutes.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	customerRoutes.Post("/", customerHandler.Create)
	customerRoutes.Get("/:id", customerHandler.GetByID)
	customerRoutes.Patch("/:id/credit-limit", customerHandler.UpdateCreditLimit)

	// Loan routes
	loanRoutes := apiV1.Group("/loans")
	loanRoutes.Use(middleware.AuthMiddleware(cfg), middleware.AdminOnly())
	loanRoutes.Post("/", loanHandler.Create)
	loanRoutes.Get("/", loanHandler.List)
	loanRoutes.Get("/:id", loanHandler.GetByID)
	loanRoutes.Post("/:id/pay", loanHandler.Pay)
	loanRoutes.Get("/:id/history", loanHandler.History)

	// Installment routes (nested under loans)
	loanRoutes.Get("/:id/installments", installmentHandler.List)
	loanRoutes.Post("/:id/installments/pay", installmentHandler.Pay)
	loanRoutes.Get("/:id/installments/overdue", installmentHandler.Overdue)
	loanRoutes.Get("/:id/annuity-preview", installmentHandler.AnnuityPreview)
}
