package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	progressService "unikurs_backend/internals/features/lms/progress/service"
	"unikurs_backend/internals/features/lms/quizzes/dto"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
	quizService "unikurs_backend/internals/features/lms/quizzes/service"
	helper "unikurs_backend/internals/helpers"
)

type QuizUserController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Gate      *progressService.AccessGate
	Sampler   *quizService.SessionSampler
	Grader    *quizService.QuizGrader
}

func NewQuizUserController(db *gorm.DB) *QuizUserController {
	return &QuizUserController{
		DB:        db,
		Validator: validator.New(),
		Gate:      progressService.NewAccessGate(db),
		Sampler:   quizService.NewSessionSampler(db),
		Grader:    quizService.NewQuizGrader(db),
	}
}

// GET /api/u/quizzes/:id/attempt
// Returns the open session (creating or resampling as needed) with the
// questions in session order and the learner's last outcome, if any.
func (ctrl *QuizUserController) Attempt(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	var quiz quizModel.QuizModel
	if err := ctrl.DB.First(&quiz, "quiz_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Quiz not found")
	}
	if quiz.QuizIsBlocked && !constants.IsPrivileged(role) {
		return helper.Error(c, fiber.StatusForbidden, "Quiz is not available")
	}

	accessible, err := ctrl.Gate.CanAccessQuiz(userID, role, quiz.QuizSectionID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve access")
	}
	if !accessible {
		return helper.Error(c, fiber.StatusForbidden, "Finish all section videos before taking the quiz")
	}

	session, questions, err := ctrl.Sampler.GetOrCreateActive(userID, &quiz)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	public := make([]dto.QuestionPublic, 0, len(questions))
	for i := range questions {
		public = append(public, dto.ToQuestionPublic(&questions[i]))
	}

	resp := dto.QuizAttemptResponse{
		QuizID:          quiz.QuizID,
		QuizTitle:       quiz.QuizTitle,
		QuizPassPercent: quiz.QuizPassPercent,
		QuizTimeLimit:   quiz.QuizTimeLimit,
		QuizSessionID:   session.QuizSessionID,
		Questions:       public,
		IsAccessible:    true,
	}

	var result quizModel.QuizResultModel
	err = ctrl.DB.
		Where("quiz_result_user_id = ? AND quiz_result_quiz_id = ?", userID, quiz.QuizID).
		First(&result).Error
	if err == nil {
		resp.UserResult = &dto.QuizOutcome{
			Correct:  result.QuizResultCorrect,
			Total:    result.QuizResultTotal,
			Percent:  result.QuizResultPercent,
			IsPassed: result.QuizResultIsPassed,
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load result")
	}

	return helper.Success(c, "OK", resp)
}

// POST /api/u/quizzes/:id/submit
func (ctrl *QuizUserController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	quizID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var quiz quizModel.QuizModel
	if err := ctrl.DB.First(&quiz, "quiz_id = ?", quizID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Quiz not found")
	}
	accessible, err := ctrl.Gate.CanAccessQuiz(userID, role, quiz.QuizSectionID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve access")
	}
	if !accessible {
		return helper.Error(c, fiber.StatusForbidden, "Finish all section videos before taking the quiz")
	}

	outcome, err := ctrl.Grader.Submit(userID, quizID, req.Answers)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Quiz graded", outcome)
}

// GET /api/u/quizzes/:id/result
func (ctrl *QuizUserController) Result(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var result quizModel.QuizResultModel
	err = ctrl.DB.
		Where("quiz_result_user_id = ? AND quiz_result_quiz_id = ?", userID, c.Params("id")).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "No result yet")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load result")
	}
	return helper.Success(c, "OK", result)
}
