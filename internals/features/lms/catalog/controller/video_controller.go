package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"unikurs_backend/internals/constants"
	"unikurs_backend/internals/features/lms/catalog/dto"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	progressService "unikurs_backend/internals/features/lms/progress/service"
	helper "unikurs_backend/internals/helpers"
)

type VideoController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Gate      *progressService.AccessGate
}

func NewVideoController(db *gorm.DB) *VideoController {
	return &VideoController{
		DB:        db,
		Validator: validator.New(),
		Gate:      progressService.NewAccessGate(db),
	}
}

// GET /api/u/videos/:id
// 403 until the previous video in the section is completed.
func (ctrl *VideoController) Detail(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}
	role := helper.GetUserRoleFromLocals(c)

	var video catalogModel.VideoModel
	if err := ctrl.DB.First(&video, "video_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Video not found")
	}
	if video.VideoIsBlocked && !constants.IsPrivileged(role) {
		return helper.Error(c, fiber.StatusForbidden, "Video is not available")
	}

	ok, err := ctrl.Gate.CanAccessVideo(userID, role, &video)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to resolve access")
	}
	if !ok {
		return helper.Error(c, fiber.StatusForbidden, "Complete the previous video first")
	}
	return helper.Success(c, "OK", video)
}

// POST /api/u/videos/:id/rating
// Upsert: one rating per user per video.
func (ctrl *VideoController) Rate(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.RateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var video catalogModel.VideoModel
	if err := ctrl.DB.First(&video, "video_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Video not found")
	}

	var rating catalogModel.VideoRatingModel
	err = ctrl.DB.
		Where("video_rating_video_id = ? AND video_rating_user_id = ?", video.VideoID, userID).
		First(&rating).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		rating = catalogModel.VideoRatingModel{
			VideoRatingVideoID: video.VideoID,
			VideoRatingUserID:  userID,
			VideoRatingValue:   req.Value,
		}
		if err := ctrl.DB.Create(&rating).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to save rating")
		}
		return helper.SuccessWithCode(c, fiber.StatusCreated, "Rating saved", rating)
	}
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load rating")
	}

	if err := ctrl.DB.Model(&rating).
		Update("video_rating_value", req.Value).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to save rating")
	}
	rating.VideoRatingValue = req.Value
	return helper.Success(c, "Rating saved", rating)
}

// GET /api/u/videos/:id/comments?page=&per_page=
func (ctrl *VideoController) ListComments(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctrl.DB.Model(&catalogModel.CommentModel{}).
		Where("comment_video_id = ?", c.Params("id"))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count comments")
	}

	var comments []catalogModel.CommentModel
	if err := tx.Order("comment_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&comments).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list comments")
	}

	return helper.Success(c, "OK", fiber.Map{
		"comments":   comments,
		"pagination": helper.BuildPagination(paging, total, len(comments)),
	})
}

// POST /api/u/videos/:id/comments
func (ctrl *VideoController) CreateComment(c *fiber.Ctx) error {
	userID, err := helper.GetUserIDFromLocals(c)
	if err != nil {
		return helper.FromFiberError(c, err)
	}

	var req dto.CreateCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var video catalogModel.VideoModel
	if err := ctrl.DB.First(&video, "video_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Video not found")
	}

	comment := catalogModel.CommentModel{
		CommentVideoID: video.VideoID,
		CommentUserID:  userID,
		CommentText:    req.Text,
	}
	if err := ctrl.DB.Create(&comment).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create comment")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Comment created", comment)
}

// POST /api/a/videos
func (ctrl *VideoController) Create(c *fiber.Ctx) error {
	var req dto.CreateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var section catalogModel.SectionModel
	if err := ctrl.DB.First(&section, "section_id = ?", req.VideoSectionID).Error; err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Section not found")
	}

	video := catalogModel.VideoModel{
		VideoSectionID:        req.VideoSectionID,
		VideoTitle:            req.VideoTitle,
		VideoFileURL:          req.VideoFileURL,
		VideoSmallDescription: req.VideoSmallDescription,
		VideoOrder:            req.VideoOrder,
		VideoIsBlocked:        true,
	}
	if req.VideoIsBlocked != nil {
		video.VideoIsBlocked = *req.VideoIsBlocked
	}
	if err := ctrl.DB.Create(&video).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create video")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Video created", video)
}

// PUT /api/a/videos/:id
func (ctrl *VideoController) Update(c *fiber.Ctx) error {
	var req dto.UpdateVideoRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var video catalogModel.VideoModel
	if err := ctrl.DB.First(&video, "video_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Video not found")
	}

	updates := map[string]interface{}{}
	if req.VideoTitle != nil {
		updates["video_title"] = *req.VideoTitle
	}
	if req.VideoFileURL != nil {
		updates["video_file_url"] = *req.VideoFileURL
	}
	if req.VideoSmallDescription != nil {
		updates["video_small_description"] = *req.VideoSmallDescription
	}
	if req.VideoIsBlocked != nil {
		updates["video_is_blocked"] = *req.VideoIsBlocked
	}
	if req.VideoOrder != nil {
		updates["video_order"] = *req.VideoOrder
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&video).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update video")
		}
	}
	return helper.Success(c, "Video updated", video)
}

// DELETE /api/a/videos/:id
func (ctrl *VideoController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&catalogModel.VideoModel{}, "video_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete video")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Video not found")
	}
	return helper.Success(c, "Video deleted", nil)
}
