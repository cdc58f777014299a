package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	quizController "unikurs_backend/internals/features/lms/quizzes/controller"
)

func QuizUserRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := quizController.NewQuizUserController(db)

	r.Get("/quizzes/:id/attempt", ctrl.Attempt)
	r.Post("/quizzes/:id/submit", ctrl.Submit)
	r.Get("/quizzes/:id/result", ctrl.Result)
}
