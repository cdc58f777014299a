package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userController "unikurs_backend/internals/features/users/user/controller"
)

func UserAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := userController.NewUserController(db)

	r.Get("/users", ctrl.List)
	r.Get("/users/:hemis_id", ctrl.GetByHemisID)
	r.Post("/users/import-hemis", ctrl.ImportHemis)
}
