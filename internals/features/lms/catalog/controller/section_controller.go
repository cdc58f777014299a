package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	"unikurs_backend/internals/features/lms/catalog/dto"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	progressService "unikurs_backend/internals/features/lms/progress/service"
	quizModel "unikurs_backend/internals/features/lms/quizzes/model"
	helper "unikurs_backend/internals/helpers"
)

type SectionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Gate      *progressService.AccessGate
}

func NewSectionController(db *gorm.DB) *SectionController {
	return &SectionController{
		DB:        db,
		Validator: validator.New(),
		Gate:      progressService.NewAccessGate(db),
	}
}

// GET /api/u/sections/:id
// The single screen payload: videos with reachability, the section quiz and
// whether missions are open.
func (ctrl *SectionController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	var section catalogModel.SectionModel
	if err := ctrl.DB.First(&section, "section_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Section not found")
	}
	if section.SectionIsBlocked && !constants.IsPrivileged(role) {
		return helper.Error(c, fiber.StatusForbidden, "Section is not available")
	}

	var videos []catalogModel.VideoModel
	if err := ctrl.DB.
		Where("video_section_id = ?", section.SectionID).
		Order("video_order ASC").
		Find(&videos).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load videos")
	}

	decorated := make([]dto.VideoWithAccess, 0, len(videos))
	for i := range videos {
		v, err := ctrl.decorateVideo(userID, role, &videos[i])
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load video state")
		}
		decorated = append(decorated, *v)
	}

	var quizSummary *dto.QuizSummary
	var quiz quizModel.QuizModel
	err = ctrl.DB.First(&quiz, "quiz_section_id = ?", section.SectionID).Error
	if err == nil && (!quiz.QuizIsBlocked || constants.IsPrivileged(role)) {
		accessible, err := ctrl.Gate.CanAccessQuiz(userID, role, section.SectionID)
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve quiz access")
		}
		quizSummary = &dto.QuizSummary{
			QuizID:       quiz.QuizID,
			QuizTitle:    quiz.QuizTitle,
			IsAccessible: accessible,
		}
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load quiz")
	}

	missionsOK, err := ctrl.Gate.CanAccessMissions(userID, role, section.SectionID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve mission access")
	}

	return helper.Success(c, "OK", dto.SectionDetailResponse{
		Section:            section,
		Videos:             decorated,
		Quiz:               quizSummary,
		MissionsAccessible: missionsOK,
	})
}

func (ctrl *SectionController) decorateVideo(userID uuid.UUID, role string, video *catalogModel.VideoModel) (*dto.VideoWithAccess, error) {
	out := dto.VideoWithAccess{VideoModel: *video}

	hasAccess, err := ctrl.Gate.CanAccessVideo(userID, role, video)
	if err != nil {
		return nil, err
	}
	out.HasAccess = hasAccess

	var vp progressModel.VideoProgressModel
	err = ctrl.DB.
		Where("video_progress_user_id = ? AND video_progress_video_id = ?", userID, video.VideoID).
		First(&vp).Error
	if err == nil {
		out.IsCompleted = vp.VideoProgressIsCompleted
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	type agg struct {
		Avg   float64
		Count int64
	}
	var a agg
	if err := ctrl.DB.Model(&catalogModel.VideoRatingModel{}).
		Select("COALESCE(AVG(video_rating_value),0) AS avg, COUNT(*) AS count").
		Where("video_rating_video_id = ?", video.VideoID).
		Scan(&a).Error; err != nil {
		return nil, err
	}
	out.RatingAvg = a.Avg
	out.RatingCount = a.Count

	var mine catalogModel.VideoRatingModel
	err = ctrl.DB.
		Where("video_rating_video_id = ? AND video_rating_user_id = ?", video.VideoID, userID).
		First(&mine).Error
	if err == nil {
		out.UserRating = &mine.VideoRatingValue
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := ctrl.DB.Model(&catalogModel.CommentModel{}).
		Where("comment_video_id = ?", video.VideoID).
		Count(&out.CommentCount).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// POST /api/a/sections
func (ctrl *SectionController) Create(c *fiber.Ctx) error {
	var req dto.CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var course catalogModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", req.SectionCourseID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Course not found")
	}

	section := catalogModel.SectionModel{
		SectionCourseID:         req.SectionCourseID,
		SectionTitle:            req.SectionTitle,
		SectionSmallDescription: req.SectionSmallDescription,
		SectionOrder:            req.SectionOrder,
	}
	if req.SectionIsBlocked != nil {
		section.SectionIsBlocked = *req.SectionIsBlocked
	} else {
		// non-first sections start blocked; the cascade opens them
		var n int64
		ctrl.DB.Model(&catalogModel.SectionModel{}).
			Where("section_course_id = ?", req.SectionCourseID).
			Count(&n)
		section.SectionIsBlocked = n > 0
	}
	if err := ctrl.DB.Create(&section).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create section")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Section created", section)
}

// PUT /api/a/sections/:id
func (ctrl *SectionController) Update(c *fiber.Ctx) error {
	var req dto.UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section catalogModel.SectionModel
	if err := ctrl.DB.First(&section, "section_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Section not found")
	}

	updates := map[string]interface{}{}
	if req.SectionTitle != nil {
		updates["section_title"] = *req.SectionTitle
	}
	if req.SectionSmallDescription != nil {
		updates["section_small_description"] = *req.SectionSmallDescription
	}
	if req.SectionIsBlocked != nil {
		updates["section_is_blocked"] = *req.SectionIsBlocked
	}
	if req.SectionOrder != nil {
		updates["section_order"] = *req.SectionOrder
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&section).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update section")
		}
	}
	return helper.Success(c, "Section updated", section)
}

// DELETE /api/a/sections/:id
func (ctrl *SectionController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&catalogModel.SectionModel{}, "section_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete section")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Section not found")
	}
	return helper.Success(c, "Section deleted", nil)
}
