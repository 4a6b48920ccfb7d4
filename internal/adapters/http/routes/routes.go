package routes

import (
	"pandayo-coffee-api/internal/adapters/http/handlers"
	"pandayo-coffee-api/internal/adapters/http/middleware"
	"pandayo-coffee-api/internal/adapters/persistence/repositories"
	"pandayo-coffee-api/internal/config"
	"pandayo-coffee-api/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers onto the app.
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	userRepo := repositories.NewUserRepository(db)

	authService := services.NewAuthService(userRepo, cfg)
	userService := services.NewUserService(userRepo)

	healthHandler := handlers.NewHealthHandler(cfg, db)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")

	// Public routes, behind the stricter credential rate limit.
	api.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	api.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	api.Post("/refresh-token", middleware.AuthRateLimiter(), authHandler.RefreshToken)

	// Protected routes.
	api.Get("/me", middleware.AuthMiddleware(cfg), userHandler.Me)
	api.Put("/update-profile", middleware.AuthMiddleware(cfg), userHandler.UpdateProfile)
	api.Put("/change-password", middleware.AuthMiddleware(cfg), userHandler.ChangePassword)

	// Admin-only routes.
	api.Get("/admin-only", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), userHandler.AdminWelcome)
	api.Get("/users", middleware.AuthMiddleware(cfg), middleware.AdminOnly(), userHandler.ListUsers)
}
