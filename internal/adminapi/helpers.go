// Package adminapi implements the REST surface consumed by the admin UI.
package adminapi

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"github.com/stocklane/stocklane/internal/webserver"
	"gorm.io/gorm"
)

type apiResponse struct {
	Code    string      `json:"code,omitempty"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Detail  interface{} `json:"detail,omitempty"`
}

type pagedResponse struct {
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Data: data})
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, apiResponse{Data: data})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, apiResponse{Code: code, Message: message, Detail: detail})
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{Data: rows, Total: total, Page: page, PageSize: pageSize})
}

// GetDB returns the request-scoped database handle
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

func parsePagination(c echo.Context) (page int, pageSize int) {
	page = 1
	pageSize = 20
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("pageSize")); err == nil && ps > 0 && ps <= 500 {
		pageSize = ps
	}
	return page, pageSize
}

// currentClaims extracts the JWT claims set by the auth middleware
func currentClaims(c echo.Context) jwt.MapClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return jwt.MapClaims{}
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return jwt.MapClaims{}
	}
	return claims
}

func currentOprID(c echo.Context) int64 {
	return cast.ToInt64(currentClaims(c)["opr_id"])
}

func currentOprEmail(c echo.Context) string {
	return cast.ToString(currentClaims(c)["email"])
}

func currentOprLevel(c echo.Context) string {
	return cast.ToString(currentClaims(c)["level"])
}

// requireManager gates mutating operations to manager level and above
func requireManager(c echo.Context) error {
	switch currentOprLevel(c) {
	case "super", "admin", "manager":
		return nil
	}
	return fail(c, http.StatusForbidden, "FORBIDDEN", "Manager role required", nil)
}
