package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	"unikurs_backend/internals/features/lms/missions/dto"
	missionModel "unikurs_backend/internals/features/lms/missions/model"
	missionService "unikurs_backend/internals/features/lms/missions/service"
	helper "unikurs_backend/internals/helpers"
)

type MissionController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Service   *missionService.MissionService
}

func NewMissionController(db *gorm.DB) *MissionController {
	return &MissionController{
		DB:        db,
		Validator: validator.New(),
		Service:   missionService.NewMissionService(db),
	}
}

// GET /api/u/sections/:id/missions
func (ctrl *MissionController) ListBySection(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	sectionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	accessible, err := ctrl.Service.Gate.CanAccessMissions(userID, role, sectionID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve access")
	}

	missions, err := ctrl.Service.ListBySection(sectionID)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list missions")
	}

	var submissions []missionModel.MissionSubmissionModel
	if err := ctrl.DB.
		Joins("JOIN missions ON missions.mission_id = mission_submissions.mission_submission_mission_id").
		Where("missions.mission_section_id = ? AND mission_submissions.mission_submission_user_id = ?", sectionID, userID).
		Find(&submissions).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load submissions")
	}

	return helper.Success(c, "OK", fiber.Map{
		"missions":      missions,
		"submissions":   submissions,
		"is_accessible": accessible,
	})
}

// POST /api/u/missions/:id/submit
func (ctrl *MissionController) Submit(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	missionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.SubmitMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sub, err := ctrl.Service.Submit(userID, role, missionID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Submission saved", sub)
}

// POST /api/a/missions
func (ctrl *MissionController) Create(c *fiber.Ctx) error {
	var req dto.CreateMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section catalogModel.SectionModel
	if err := ctrl.DB.First(&section, "section_id = ?", req.MissionSectionID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Section not found")
	}

	mission := missionModel.MissionModel{
		MissionSectionID:   req.MissionSectionID,
		MissionTitle:       req.MissionTitle,
		MissionDescription: req.MissionDescription,
		MissionFileURL:     req.MissionFileURL,
	}
	if err := ctrl.DB.Create(&mission).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create mission")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Mission created", mission)
}

// PUT /api/a/missions/:id
func (ctrl *MissionController) Update(c *fiber.Ctx) error {
	var req dto.UpdateMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var mission missionModel.MissionModel
	if err := ctrl.DB.First(&mission, "mission_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Mission not found")
	}

	updates := map[string]interface{}{}
	if req.MissionTitle != nil {
		updates["mission_title"] = *req.MissionTitle
	}
	if req.MissionDescription != nil {
		updates["mission_description"] = *req.MissionDescription
	}
	if req.MissionFileURL != nil {
		updates["mission_file_url"] = *req.MissionFileURL
	}
	if req.MissionIsBlocked != nil {
		updates["mission_is_blocked"] = *req.MissionIsBlocked
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&mission).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update mission")
		}
	}
	return helper.Success(c, "Mission updated", mission)
}

// DELETE /api/a/missions/:id
func (ctrl *MissionController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&missionModel.MissionModel{}, "mission_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete mission")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Mission not found")
	}
	return helper.Success(c, "Mission deleted", nil)
}

// GET /api/a/missions/:id/submissions?page=&per_page=
func (ctrl *MissionController) ListSubmissions(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctrl.DB.Model(&missionModel.MissionSubmissionModel{}).
		Where("mission_submission_mission_id = ?", c.Params("id"))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count submissions")
	}

	var subs []missionModel.MissionSubmissionModel
	if err := tx.Order("mission_submission_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&subs).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list submissions")
	}

	return helper.Success(c, "OK", fiber.Map{
		"submissions": subs,
		"pagination":  helper.BuildPagination(paging, total, len(subs)),
	})
}

// PUT /api/a/mission-submissions/:id/review
func (ctrl *MissionController) Review(c *fiber.Ctx) error {
	submissionID, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.ReviewMissionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	sub, err := ctrl.Service.Review(submissionID, &req)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	return helper.Success(c, "Submission reviewed", sub)
}
