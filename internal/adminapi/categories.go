package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/webserver"
	"github.com/stocklane/stocklane/pkg/common"
)

func registerCategoryRoutes() {
	webserver.ApiGET("/categories", listCategories)
	webserver.ApiGET("/categories/:id", getCategory)
	webserver.ApiPOST("/categories", createCategory)
	webserver.ApiPUT("/categories/:id", updateCategory)
	webserver.ApiDELETE("/categories/:id", deleteCategory)
}

func listCategories(c echo.Context) error {
	var categories []domain.Category
	if err := GetDB(c).Order("name ASC").Find(&categories).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query categories", err.Error())
	}
	return ok(c, categories)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}
	return ok(c, cat)
}

type categoryPayload struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
}

func createCategory(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	payload.Name = strings.TrimSpace(payload.Name)
	if payload.Name == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Category name is required", nil)
	}

	var dup domain.Category
	if err := GetDB(c).Where("name = ?", payload.Name).First(&dup).Error; err == nil {
		return fail(c, http.StatusConflict, "DUPLICATE_CATEGORY", "Category with this name already exists", nil)
	}

	cat := domain.Category{
		ID:          common.UUIDint64(),
		Name:        payload.Name,
		Description: payload.Description,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := GetDB(c).Create(&cat).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create category", err.Error())
	}
	return created(c, cat)
}

func updateCategory(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var payload categoryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	var cat domain.Category
	if err := GetDB(c).Where("id = ?", id).First(&cat).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "CATEGORY_NOT_FOUND", "Category not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query category", err.Error())
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if name := strings.TrimSpace(payload.Name); name != "" {
		updates["name"] = name
	}
	if payload.Description != "" {
		updates["description"] = payload.Description
	}
	if err := GetDB(c).Model(&cat).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update category", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&cat)
	return ok(c, cat)
}

func deleteCategory(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Category{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete category", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
