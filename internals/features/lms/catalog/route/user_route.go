package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogController "unikurs_backend/internals/features/lms/catalog/controller"
)

func CatalogUserRoutes(r fiber.Router, db *gorm.DB) {
	categories := catalogController.NewCategoryController(db)
	courses := catalogController.NewCourseController(db)
	sections := catalogController.NewSectionController(db)
	videos := catalogController.NewVideoController(db)

	r.Get("/categories", categories.List)

	r.Get("/courses", courses.List)
	r.Get("/courses/:id", courses.Detail)

	r.Get("/sections/:id", sections.Detail)

	r.Get("/videos/:id", videos.Detail)
	r.Post("/videos/:id/rating", videos.Rate)
	r.Get("/videos/:id/comments", videos.ListComments)
	r.Post("/videos/:id/comments", videos.CreateComment)
}
