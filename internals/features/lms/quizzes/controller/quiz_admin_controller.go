package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	"unikurs_backend/internals/features/lms/quizzes/dto"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
	helper "unikurs_backend/internals/helpers"
)

type QuizAdminController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewQuizAdminController(db *gorm.DB) *QuizAdminController {
	return &QuizAdminController{DB: db, Validator: validator.New()}
}

// POST /api/a/quizzes
// One quiz per section, enforced by the unique index on quiz_section_id.
func (ctrl *QuizAdminController) Create(c *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section catalogModel.SectionModel
	if err := ctrl.DB.First(&section, "section_id = ?", req.QuizSectionID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Section not found")
	}

	var existing int64
	ctrl.DB.Model(&quizModel.QuizModel{}).
		Where("quiz_section_id = ?", req.QuizSectionID).
		Count(&existing)
	if existing > 0 {
		return helper.Error(c, fiber.StatusConflict, "Section already has a quiz")
	}

	quiz := quizModel.QuizModel{
		QuizSectionID:      req.QuizSectionID,
		QuizTitle:          req.QuizTitle,
		QuizPassPercent:    req.QuizPassPercent,
		QuizTimeLimit:      req.QuizTimeLimit,
		QuizQuestionsCount: req.QuizQuestionsCount,
	}
	if err := ctrl.DB.Create(&quiz).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create quiz")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Quiz created", quiz)
}

// PUT /api/a/quizzes/:id
func (ctrl *QuizAdminController) Update(c *fiber.Ctx) error {
	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var quiz quizModel.QuizModel
	if err := ctrl.DB.First(&quiz, "quiz_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Quiz not found")
	}

	updates := map[string]interface{}{}
	if req.QuizTitle != nil {
		updates["quiz_title"] = *req.QuizTitle
	}
	if req.QuizPassPercent != nil {
		updates["quiz_pass_percent"] = *req.QuizPassPercent
	}
	if req.QuizTimeLimit != nil {
		updates["quiz_time_limit"] = *req.QuizTimeLimit
	}
	if req.QuizQuestionsCount != nil {
		updates["quiz_questions_count"] = *req.QuizQuestionsCount
	}
	if req.QuizIsBlocked != nil {
		updates["quiz_is_blocked"] = *req.QuizIsBlocked
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&quiz).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update quiz")
		}
	}
	return helper.Success(c, "Quiz updated", quiz)
}

// DELETE /api/a/quizzes/:id
func (ctrl *QuizAdminController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&quizModel.QuizModel{}, "quiz_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete quiz")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Quiz not found")
	}
	return helper.Success(c, "Quiz deleted", nil)
}

// GET /api/a/quizzes/:id/questions
// Admin view, correct slots included.
func (ctrl *QuizAdminController) ListQuestions(c *fiber.Ctx) error {
	var questions []quizModel.QuestionModel
	if err := ctrl.DB.
		Where("question_quiz_id = ?", c.Params("id")).
		Order("question_created_at ASC").
		Find(&questions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list questions")
	}

	type questionAdmin struct {
		quizModel.QuestionModel
		QuestionCorrect string `json:"question_correct"`
	}
	out := make([]questionAdmin, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionAdmin{QuestionModel: q, QuestionCorrect: q.QuestionCorrect})
	}
	return helper.Success(c, "OK", out)
}

// POST /api/a/questions
func (ctrl *QuizAdminController) CreateQuestion(c *fiber.Ctx) error {
	var req dto.CreateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var quiz quizModel.QuizModel
	if err := ctrl.DB.First(&quiz, "quiz_id = ?", req.QuestionQuizID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Quiz not found")
	}

	question := quizModel.QuestionModel{
		QuestionQuizID:  req.QuestionQuizID,
		QuestionText:    req.QuestionText,
		QuestionOption1: req.QuestionOption1,
		QuestionOption2: req.QuestionOption2,
		QuestionOption3: req.QuestionOption3,
		QuestionOption4: req.QuestionOption4,
		QuestionCorrect: req.QuestionCorrect,
	}
	if err := ctrl.DB.Create(&question).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create question")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Question created", question)
}

// PUT /api/a/questions/:id
func (ctrl *QuizAdminController) UpdateQuestion(c *fiber.Ctx) error {
	var req dto.UpdateQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var question quizModel.QuestionModel
	if err := ctrl.DB.First(&question, "question_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Question not found")
	}

	updates := map[string]interface{}{}
	if req.QuestionText != nil {
		updates["question_text"] = *req.QuestionText
	}
	if req.QuestionOption1 != nil {
		updates["question_option1"] = *req.QuestionOption1
	}
	if req.QuestionOption2 != nil {
		updates["question_option2"] = *req.QuestionOption2
	}
	if req.QuestionOption3 != nil {
		updates["question_option3"] = *req.QuestionOption3
	}
	if req.QuestionOption4 != nil {
		updates["question_option4"] = *req.QuestionOption4
	}
	if req.QuestionCorrect != nil {
		updates["question_correct"] = *req.QuestionCorrect
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&question).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update question")
		}
	}
	return helper.Success(c, "Question updated", question)
}

// DELETE /api/a/questions/:id
func (ctrl *QuizAdminController) DeleteQuestion(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&quizModel.QuestionModel{}, "question_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete question")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Question not found")
	}
	return helper.Success(c, "Question deleted", nil)
}

// GET /api/a/quizzes/:id/results?page=&per_page=
func (ctrl *QuizAdminController) ListResults(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctrl.DB.Model(&quizModel.QuizResultModel{}).
		Where("quiz_result_quiz_id = ?", c.Params("id"))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count results")
	}

	var results []quizModel.QuizResultModel
	if err := tx.Order("quiz_result_percent DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&results).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list results")
	}

	return helper.Success(c, "OK", fiber.Map{
		"results":    results,
		"pagination": helper.BuildPagination(paging, total, len(results)),
	})
}
