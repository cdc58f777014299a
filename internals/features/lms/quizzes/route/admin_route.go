package route

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	quizController "unikurs_backend/internals/features/lms/quizzes/controller"
)

func QuizAdminRoutes(r fiber.Router, db *gorm.DB) {
	ctrl := quizController.NewQuizAdminController(db)

	r.Post("/quizzes", ctrl.Create)
	r.Put("/quizzes/:id", ctrl.Update)
	r.Delete("/quizzes/:id", ctrl.Delete)
	r.Get("/quizzes/:id/questions", ctrl.ListQuestions)
	r.Get("/quizzes/:id/results", ctrl.ListResults)

	r.Post("/questions", ctrl.CreateQuestion)
	r.Put("/questions/:id", ctrl.UpdateQuestion)
	r.Delete("/questions/:id", ctrl.DeleteQuestion)
}
