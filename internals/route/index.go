package routes

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	catalogRoute "unikurs_backend/internals/features/lms/catalog/route"
	certRoute "unikurs_backend/internals/features/lms/certificates/route"
	missionRoute "unikurs_backend/internals/features/lms/missions/route"
	progressRoute "unikurs_backend/internals/features/lms/progress/route"
	quizRoute "unikurs_backend/internals/features/lms/quizzes/route"
	authRoute "unikurs_backend/internals/features/users/auth/route"
	userRoute "unikurs_backend/internals/features/users/user/route"
	authMiddleware "unikurs_backend/internals/middlewares/auth"
)

var startTime time.Time

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	startTime = time.Now()

	BaseRoutes(app, db)

	log.Println("[INFO] Setting up AuthRoutes...")
	authRoute.AuthRoutes(app, db)

	// ===================== PRIVATE (USER) =====================
	log.Println("[INFO] Setting up PRIVATE group...")
	private := app.Group("/api/u", authMiddleware.AuthMiddleware(db))

	// ===================== ADMIN / STAFF =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles(constants.RoleAdmin, constants.RoleTeacher),
	)

	// ===================== MOUNT ROUTES =====================
	log.Println("[INFO] Mounting Catalog routes...")
	catalogRoute.CatalogUserRoutes(private, db)
	catalogRoute.CatalogAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Progress routes...")
	progressRoute.ProgressUserRoutes(private, db)

	log.Println("[INFO] Mounting Quiz routes...")
	quizRoute.QuizUserRoutes(private, db)
	quizRoute.QuizAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Mission routes...")
	missionRoute.MissionUserRoutes(private, db)
	missionRoute.MissionAdminRoutes(admin, db)

	log.Println("[INFO] Mounting Certificate routes...")
	certRoute.CertificateUserRoutes(private, db)

	log.Println("[INFO] Mounting User routes...")
	userRoute.UserAdminRoutes(admin, db)
}
