package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	missionController "unikurs_backend/internals/features/lms/missions/controller"
)

func MissionUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := missionController.NewMissionController(db)

	r.Get("/sections/:id/missions", ctrl.ListBySection)
	r.Post("/missions/:id/submit", ctrl.Submit)
}
