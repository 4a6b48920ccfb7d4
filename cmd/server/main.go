package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"pandayo-coffee-api/internal/adapters/http/middleware"
	"pandayo-coffee-api/internal/adapters/http/routes"
	"pandayo-coffee-api/internal/adapters/persistence/models"
	"pandayo-coffee-api/internal/adapters/persistence/repositories"
	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "pandayo-coffee-api/docs" // Swagger docs
)

// @title PandayoCoffee API
// @version 1.0
// @description User registration, login and role-based access control for the PandayoCoffee backend.

// @contact.name API Support

// @host localhost:3001
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the JWT access token.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase(db)

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed a default admin in dev; registration cannot self-assign admin.
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: failed to seed database: %v", err)
		}
	}

	userRepo := repositories.NewUserRepository(db)
	maintenance := services.NewMaintenanceService(userRepo)
	maintenance.Start()
	defer maintenance.Stop()

	app := fiber.New(fiber.Config{
		AppName:      "PandayoCoffee API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	middleware.Setup(app, cfg)
	routes.Setup(app, db, cfg)

	go gracefulShutdown(app)

	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown stops accepting connections on SIGINT/SIGTERM and drains
// in-flight requests.
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
