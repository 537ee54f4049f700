package routes

import (
	"github.com/coinlyapp/coinly-backend/internal/config"
	"github.com/coinlyapp/coinly-backend/internal/handlers"
	"github.com/coinlyapp/coinly-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
) {
	api := app.Group("/api")

	api.Get("/health", healthHandler.Check)

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)

	// Protected routes (JWT required)
	api.Get("/auth/me", middleware.JWTProtected(cfg), authHandler.Me)
}
