package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	progressModel "unikurs_backend/internals/features/lms/progress/model"
	progressService "unikurs_backend/internals/features/lms/progress/service"
	helper "unikurs_backend/internals/helpers"
)

type ProgressController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Ledger    *progressService.ProgressLedger
}

func NewProgressController(db *gorm.DB) *ProgressController {
	return &ProgressController{
		DB:        db,
		Validator: validator.New(),
		Ledger:    progressService.NewProgressLedger(db),
	}
}

type markVideoRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// POST /api/u/videos/:id/progress {"completed": true|false}
// true marks the video watched, false retracts the mark. Both recompute the
// section and course percentages.
func (ctrl *ProgressController) MarkVideo(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req markVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	videoID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	role := helper.GetUserRoleFromLocals(c)
	snap, err := ctrl.Ledger.MarkVideo(userID, role, videoID, *req.Completed)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Progress saved", snap)
}

// GET /api/u/courses/:id/progress
func (ctrl *ProgressController) CourseProgress(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	courseID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var cp progressModel.CourseProgressModel
	err = ctrl.DB.
		Where("course_progress_user_id = ? AND course_progress_course_id = ?", userID, courseID).
		First(&cp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Success(c, "OK", fiber.Map{
			"course_progress_course_id":    courseID,
			"course_progress_percent":      0,
			"course_progress_is_completed": false,
		})
	}
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load progress")
	}
	return helper.Success(c, "OK", cp)
}

// GET /api/u/sections/:id/progress
func (ctrl *ProgressController) SectionProgress(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	sectionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var sp progressModel.SectionProgressModel
	err = ctrl.DB.
		Where("section_progress_user_id = ? AND section_progress_section_id = ?", userID, sectionID).
		First(&sp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Success(c, "OK", fiber.Map{
			"section_progress_section_id":    sectionID,
			"section_progress_score_percent": 0,
			"section_progress_is_completed":  false,
		})
	}
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load progress")
	}
	return helper.Success(c, "OK", sp)
}
