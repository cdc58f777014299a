package controller

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	userModel "unikurs_backend/internals/features/users/user/model"
	userService "unikurs_backend/internals/features/users/user/service"
	helper "unikurs_backend/internals/helpers"
)

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GET /api/a/users?role=&group=&q=&page=&per_page=
func (ctrl *UserController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	tx := ctrl.DB.Model(&userModel.UserModel{})
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		tx = tx.Where("user_role = ?", role)
	}
	if group := strings.TrimSpace(c.Query("group")); group != "" {
		tx = tx.Where("user_group = ?", group)
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		tx = tx.Where(
			"(user_hemis_id LIKE ? OR COALESCE(user_first_name,'') LIKE ? OR COALESCE(user_last_name,'') LIKE ?)",
			like, like, like,
		)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to count users")
	}

	var users []userModel.UserModel
	if err := tx.Order("user_created_at DESC").
		Offset(paging.Offset).Limit(paging.Limit).
		Find(&users).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list users")
	}

	return helper.Success(c, "OK", fiber.Map{
		"users":      users,
		"pagination": helper.BuildPagination(paging, total, len(users)),
	})
}

// GET /api/a/users/:hemis_id
func (ctrl *UserController) GetByHemisID(c *fiber.Ctx) error {
	hemisID := strings.TrimSpace(c.Params("hemis_id"))
	var user userModel.UserModel
	if err := ctrl.DB.First(&user, "user_hemis_id = ?", hemisID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "User not found")
	}
	return helper.Success(c, "OK", user)
}

// POST /api/a/users/import-hemis?only=&reset_passwords=&dry_run=
// Bulk roster sync from HEMIS. Long call; guarded by the admin route group.
func (ctrl *UserController) ImportHemis(c *fiber.Ctx) error {
	opts := userService.ImportOptions{
		Only:           c.Query("only", "both"),
		ResetPasswords: c.QueryBool("reset_passwords", false),
		DryRun:         c.QueryBool("dry_run", false),
	}

	svc := userService.NewHemisImportService(ctrl.DB)
	sum, err := svc.Run(opts)
	if err != nil {
		return helper.Error(c, fiber.StatusBadGateway, err.Error())
	}
	return helper.Success(c, "Import finished", sum)
}
