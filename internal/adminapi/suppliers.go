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

func registerSupplierRoutes() {
	webserver.ApiGET("/suppliers", listSuppliers)
	webserver.ApiGET("/suppliers/:id", getSupplier)
	webserver.ApiPOST("/suppliers", createSupplier)
	webserver.ApiPUT("/suppliers/:id", updateSupplier)
	webserver.ApiDELETE("/suppliers/:id", deleteSupplier)
}

func listSuppliers(c echo.Context) error {
	page, pageSize := parsePagination(c)

	base := GetDB(c).Model(&domain.Supplier{})
	if q := strings.TrimSpace(c.QueryParam("search")); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		base = base.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}
	if isActive := c.QueryParam("isActive"); isActive != "" {
		base = base.Where("is_active = ?", isActive == "true")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}

	var suppliers []domain.Supplier
	if err := base.Order("name ASC").Offset((page-1)*pageSize).Limit(pageSize).Find(&suppliers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query suppliers", err.Error())
	}
	return paged(c, suppliers, total, page, pageSize)
}

func getSupplier(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	var s domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}
	return ok(c, s)
}

type supplierPayload struct {
	Name          string `json:"name" form:"name"`
	Email         string `json:"email" form:"email"`
	Phone         string `json:"phone" form:"phone"`
	Address       string `json:"address" form:"address"`
	ContactPerson string `json:"contact_person" form:"contact_person"`
	Rating        int    `json:"rating" form:"rating"`
	IsActive      *bool  `json:"is_active" form:"is_active"`
	Remark        string `json:"remark" form:"remark"`
}

func createSupplier(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier parameters", nil)
	}
	if strings.TrimSpace(payload.Name) == "" {
		return fail(c, http.StatusBadRequest, "MISSING_NAME", "Supplier name is required", nil)
	}

	isActive := true
	if payload.IsActive != nil {
		isActive = *payload.IsActive
	}

	s := domain.Supplier{
		ID:            common.UUIDint64(),
		Name:          strings.TrimSpace(payload.Name),
		Email:         payload.Email,
		Phone:         payload.Phone,
		Address:       payload.Address,
		ContactPerson: payload.ContactPerson,
		Rating:        payload.Rating,
		IsActive:      isActive,
		Remark:        payload.Remark,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	if err := GetDB(c).Create(&s).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create supplier", err.Error())
	}
	return created(c, s)
}

func updateSupplier(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	var payload supplierPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse supplier parameters", nil)
	}
	var s domain.Supplier
	if err := GetDB(c).Where("id = ?", id).First(&s).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SUPPLIER_NOT_FOUND", "Supplier not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query supplier", err.Error())
	}

	updates := map[string]interface{}{}
	if payload.Name != "" {
		updates["name"] = strings.TrimSpace(payload.Name)
	}
	if payload.Email != "" {
		updates["email"] = payload.Email
	}
	if payload.Phone != "" {
		updates["phone"] = payload.Phone
	}
	if payload.Address != "" {
		updates["address"] = payload.Address
	}
	if payload.ContactPerson != "" {
		updates["contact_person"] = payload.ContactPerson
	}
	if payload.Rating != 0 {
		updates["rating"] = payload.Rating
	}
	if payload.IsActive != nil {
		updates["is_active"] = *payload.IsActive
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	updates["updated_at"] = time.Now()
	if err := GetDB(c).Model(&s).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update supplier", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&s)
	return ok(c, s)
}

func deleteSupplier(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid supplier ID", nil)
	}
	if err := GetDB(c).Where("id = ?", id).Delete(&domain.Supplier{}).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete supplier", err.Error())
	}
	return ok(c, map[string]interface{}{"id": id})
}
