package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	missionController "unikurs_backend/internals/features/lms/missions/controller"
)

func MissionAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := missionController.NewMissionController(db)

	r.Post("/missions", ctrl.Create)
	r.Put("/missions/:id", ctrl.Update)
	r.Delete("/missions/:id", ctrl.Delete)
	r.Get("/missions/:id/submissions", ctrl.ListSubmissions)
	r.Put("/mission-submissions/:id/review", ctrl.Review)
}
