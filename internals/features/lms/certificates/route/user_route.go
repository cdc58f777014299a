package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certController "unikurs_backend/internals/features/lms/certificates/controller"
)

func CertificateUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := certController.NewCertificateController(db)

	r.Get("/certificates", ctrl.ListMine)
	r.Get("/courses/:id/certificate", ctrl.CheckCourse)
	r.Post("/courses/:id/certificate", ctrl.Generate)
}
