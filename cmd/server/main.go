package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"creditline/internal/adapters/http/middleware"
	"creditline/internal/adapters/http/routes"
	"creditline/internal/adapters/persistence/models"
	"creditline/internal/adapters/persistence/repositories"
	"creditline/internal/config"
	"creditline/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	_ "creditline/docs" // Swagger docs
)

// @title Credit Line API
// @version 1.0
// @description Customer credit line and installment loan management API

// @host localhost:3000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		logrus.WithError(err).Fatal("failed to auto migrate")
	}
	logrus.Info("database migration completed")

	// Seed demo customers in dev mode
	if cfg.IsDev() {
		if err := config.SeedDemoData(db); err != nil {
			logrus.WithError(err).Warn("failed to seed demo data")
		}
	}

	// Ensure the admin operator account exists
	authService := services.NewAuthService(repositories.NewUserRepository(db), cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := authService.EnsureAdminUser(ctx); err != nil {
		cancel()
		logrus.WithError(err).Fatal("failed to ensure admin user")
	}
	cancel()

	// Start overdue reminder scan (08:30 daily)
	notifyService := services.NewNotificationService(cfg)
	reminderService := services.NewReminderService(repositories.NewInstallmentRepository(db), notifyService)
	reminderService.Start()
	defer reminderService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Credit Line API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	logrus.WithFields(logrus.Fields{
		"port": cfg.Port,
		"mode": cfg.AppMode,
	}).Info("server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		logrus.WithError(err).Fatal("failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		logrus.WithError(err).Error("error during shutdown")
	}
	logrus.Info("server stopped gracefully")
}
