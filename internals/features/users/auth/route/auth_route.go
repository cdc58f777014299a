package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	authController "unikurs_backend/internals/features/users/auth/controller"
	"unikurs_backend/internals/middlewares"
	authMiddleware "unikurs_backend/internals/middlewares/auth"
)

func AuthRoutes(app *fiber.App, db *gorm.DB) {
	ctrl := authController.NewAuthController(db)

	auth := app.Group("/auth")
	auth.Post("/login", middlewares.LoginRateLimiter(), ctrl.Login)
	auth.Post("/refresh", ctrl.Refresh)
	auth.Get("/me", authMiddleware.AuthMiddleware(db), ctrl.Me)
}
