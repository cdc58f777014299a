package controller

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	certService "unikurs_backend/internals/features/lms/certificates/service"
	helper "unikurs_backend/internals/helpers"
)

type CertificateController struct {
	DB      *gorm.DB
	Service *certService.CertificateService
}

func NewCertificateController(db *gorm.DB) *CertificateController {
	return &CertificateController{DB: db, Service: certService.NewCertificateService(db)}
}

// GET /api/u/certificates
func (ctrl *CertificateController) ListMine(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	certs, err := ctrl.Service.ListByUser(userID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list certificates")
	}
	return helper.Success(c, "OK", certs)
}

// GET /api/u/courses/:id/certificate
func (ctrl *CertificateController) CheckCourse(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	cert, found, err := ctrl.Service.CheckCourse(userID, courseID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to check certificate")
	}
	return helper.Success(c, "OK", fiber.Map{
		"has_certificate": found,
		"certificate":     cert,
	})
}

// POST /api/u/courses/:id/certificate
// Manual issue: course progress must already be at 100 percent.
func (ctrl *CertificateController) Generate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	cert, err := ctrl.Service.GenerateManual(userID, courseID)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Certificate issued", cert)
}
