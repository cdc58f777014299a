package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressController "unikurs_backend/internals/features/lms/progress/controller"
)

func ProgressUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := progressController.NewProgressController(db)

	r.Post("/videos/:id/progress", ctrl.MarkVideo)
	r.Get("/sections/:id/progress", ctrl.SectionProgress)
	r.Get("/courses/:id/progress", ctrl.CourseProgress)
}
