package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogController "unikurs_backend/internals/features/lms/catalog/controller"
)

func CatalogAdminRoutes(r fiber.Router, db *gorm.DB) {
	categories := catalogController.NewCategoryController(db)
	courses := catalogController.NewCourseController(db)
	sections := catalogController.NewSectionController(db)
	videos := catalogController.NewVideoController(db)

	r.Post("/categories", categories.Create)
	r.Put("/categories/:id", categories.Update)
	r.Delete("/categories/:id", categories.Delete)

	r.Post("/courses", courses.Create)
	r.Put("/courses/:id", courses.Update)
	r.Delete("/courses/:id", courses.Delete)
	r.Put("/courses/:id/teachers", courses.AssignTeachers)

	r.Post("/sections", sections.Create)
	r.Put("/sections/:id", sections.Update)
	r.Delete("/sections/:id", sections.Delete)

	r.Post("/videos", videos.Create)
	r.Put("/videos/:id", videos.Update)
	r.Delete("/videos/:id", videos.Delete)
}
