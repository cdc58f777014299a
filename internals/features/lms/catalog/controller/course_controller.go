package controller

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	"unikurs_backend/internals/features/lms/catalog/dto"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	certModel "unikurs_backend/internals/features/lms/certificates/model"
	progressModel "unikurs_backend/internals/features/lms/progress/model"
	userModel "unikurs_backend/internals/features/users/user/model"
	helper "unikurs_backend/internals/helpers"
)

type CourseController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCourseController(db *gorm.DB) *CourseController {
	return &CourseController{DB: db, Validator: validator.New()}
}

// GET /api/u/courses?category_id=&q=&page=&per_page=
// Learners only see unblocked courses; staff see everything.
func (ctrl *CourseController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	role := helper.GetUserRoleFromLocals(c)

	tx := ctrl.DB.Model(&catalogModel.CourseModel{})
	if !constants.IsPrivileged(role) {
		tx = tx.Where("course_is_blocked = ?", false)
	}
	if categoryID := strings.TrimSpace(c.Query("category_id")); categoryID != "" {
		tx = tx.Where("course_category_id = ?", categoryID)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		tx = tx.Where("(course_title LIKE ? OR course_author LIKE ?)", like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count courses")
	}

	var courses []catalogModel.CourseModel
	if err := tx.Preload("Teachers").
		Order("course_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&courses).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list courses")
	}

	return helper.Success(c, "OK", fiber.Map{
		"courses":    courses,
		"pagination": helper.BuildPagination(paging, total, len(courses)),
	})
}

// GET /api/u/courses/:id
func (ctrl *CourseController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	var course catalogModel.CourseModel
	if err := ctrl.DB.Preload("Teachers").
		First(&course, "course_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Course not found")
	}
	if course.CourseIsBlocked && !constants.IsPrivileged(role) {
		return helper.Error(c, fiber.StatusForbidden, "Course is not available")
	}

	sectionTx := ctrl.DB.Where("section_course_id = ?", course.CourseID)
	if !constants.IsPrivileged(role) {
		sectionTx = sectionTx.Where("section_is_blocked = ?", false)
	}
	var sections []catalogModel.SectionModel
	if err := sectionTx.Order("section_order ASC").Find(&sections).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load sections")
	}

	summaries := make([]dto.SectionSummary, 0, len(sections))
	for i := range sections {
		s := dto.SectionSummary{SectionModel: sections[i]}

		ctrl.DB.Model(&catalogModel.VideoModel{}).
			Where("video_section_id = ?", sections[i].SectionID).
			Count(&s.VideoCount)

		var sp progressModel.SectionProgressModel
		err := ctrl.DB.
			Where("section_progress_user_id = ? AND section_progress_section_id = ?", userID, sections[i].SectionID).
			First(&sp).Error
		if err == nil {
			s.ScorePercent = sp.SectionProgressScorePercent
			s.IsCompleted = sp.SectionProgressIsCompleted
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load progress")
		}
		summaries = append(summaries, s)
	}

	progressPercent := 0
	var cp progressModel.CourseProgressModel
	if err := ctrl.DB.
		Where("course_progress_user_id = ? AND course_progress_course_id = ?", userID, course.CourseID).
		First(&cp).Error; err == nil {
		progressPercent = cp.CourseProgressPercent
	}

	var certCount int64
	ctrl.DB.Model(&certModel.CertificateModel{}).
		Where("certificate_user_id = ? AND certificate_course_id = ?", userID, course.CourseID).
		Count(&certCount)

	return helper.Success(c, "OK", dto.CourseDetailResponse{
		Course:          course,
		Sections:        summaries,
		ProgressPercent: progressPercent,
		HasCertificate:  certCount > 0,
	})
}

// POST /api/a/courses
func (ctrl *CourseController) Create(c *fiber.Ctx) error {
	var req dto.CreateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var category catalogModel.CategoryModel
	if err := ctrl.DB.First(&category, "category_id = ?", req.CourseCategoryID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Category not found")
	}

	course := catalogModel.CourseModel{
		CourseCategoryID:       req.CourseCategoryID,
		CourseTitle:            req.CourseTitle,
		CourseAuthor:           req.CourseAuthor,
		CourseImageURL:         req.CourseImageURL,
		CourseIntroVideoURL:    req.CourseIntroVideoURL,
		CourseSmallDescription: req.CourseSmallDescription,
	}
	if err := ctrl.DB.Create(&course).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create course")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Course created", course)
}

// PUT /api/a/courses/:id
func (ctrl *CourseController) Update(c *fiber.Ctx) error {
	var req dto.UpdateCourseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var course catalogModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Course not found")
	}

	updates := map[string]interface{}{}
	if req.CourseCategoryID != nil {
		updates["course_category_id"] = *req.CourseCategoryID
	}
	if req.CourseTitle != nil {
		updates["course_title"] = *req.CourseTitle
	}
	if req.CourseAuthor != nil {
		updates["course_author"] = *req.CourseAuthor
	}
	if req.CourseImageURL != nil {
		updates["course_image_url"] = *req.CourseImageURL
	}
	if req.CourseIntroVideoURL != nil {
		updates["course_intro_video_url"] = *req.CourseIntroVideoURL
	}
	if req.CourseIsBlocked != nil {
		updates["course_is_blocked"] = *req.CourseIsBlocked
	}
	if req.CourseSmallDescription != nil {
		updates["course_small_description"] = *req.CourseSmallDescription
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&course).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update course")
		}
	}
	return helper.Success(c, "Course updated", course)
}

// DELETE /api/a/courses/:id
func (ctrl *CourseController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&catalogModel.CourseModel{}, "course_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete course")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Course not found")
	}
	return helper.Success(c, "Course deleted", nil)
}

// PUT /api/a/courses/:id/teachers
// Replaces the staffing list. Only users with the teacher role are accepted.
func (ctrl *CourseController) AssignTeachers(c *fiber.Ctx) error {
	var req dto.AssignTeachersRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var course catalogModel.CourseModel
	if err := ctrl.DB.First(&course, "course_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Course not found")
	}

	var teachers []userModel.UserModel
	if err := ctrl.DB.
		Where("user_id IN ? AND user_role = ?", req.TeacherIDs, constants.RoleTeacher).
		Find(&teachers).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load teachers")
	}
	if len(teachers) != len(uniqueIDs(req.TeacherIDs)) {
		return helper.Error(c, fiber.StatusBadRequest, "Some ids are not teachers")
	}

	if err := ctrl.DB.Model(&course).Association("Teachers").Replace(teachers); err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign teachers")
	}
	return helper.Success(c, "Teachers assigned", teachers)
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
