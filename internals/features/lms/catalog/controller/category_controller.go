package controller

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"unikurs_backend/internals/features/lms/catalog/dto"
	catalogModel "unikurs_backend/internals/features/lms/catalog/model"
	helper "unikurs_backend/internals/helpers"
)

type CategoryController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewCategoryController(db *gorm.DB) *CategoryController {
	return &CategoryController{DB: db, Validator: validator.New()}
}

// GET /api/u/categories
func (ctrl *CategoryController) List(c *fiber.Ctx) error {
	var categories []catalogModel.CategoryModel
	if err := ctrl.DB.Order("category_title ASC").Find(&categories).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to list categories")
	}
	return helper.Success(c, "OK", categories)
}

// POST /api/a/categories
func (ctrl *CategoryController) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	category := catalogModel.CategoryModel{
		CategoryTitle:    req.CategoryTitle,
		CategoryImageURL: req.CategoryImageURL,
	}
	if err := ctrl.DB.Create(&category).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create category")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Category created", category)
}

// PUT /api/a/categories/:id
func (ctrl *CategoryController) Update(c *fiber.Ctx) error {
	var req dto.UpdateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctrl.Validator.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var category catalogModel.CategoryModel
	if err := ctrl.DB.First(&category, "category_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Category not found")
	}

	updates := map[string]interface{}{}
	if req.CategoryTitle != nil {
		updates["category_title"] = *req.CategoryTitle
	}
	if req.CategoryImageURL != nil {
		updates["category_image_url"] = *req.CategoryImageURL
	}
	if len(updates) > 0 {
		if err := ctrl.DB.Model(&category).Updates(updates).Error; err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to update category")
		}
	}
	return helper.Success(c, "Category updated", category)
}

// DELETE /api/a/categories/:id
func (ctrl *CategoryController) Delete(c *fiber.Ctx) error {
	res := ctrl.DB.Delete(&catalogModel.CategoryModel{}, "category_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete category")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Category not found")
	}
	return helper.Success(c, "Category deleted", nil)
}
