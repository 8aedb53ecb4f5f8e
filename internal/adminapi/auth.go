package adminapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/webserver"
	"github.com/stocklane/stocklane/pkg/common"
	"gorm.io/gorm"
)

func registerAuthRoutes() {
	webserver.ApiPOST("/auth/login", login)
	webserver.ApiGET("/auth/me", me)
}

type loginPayload struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	payload.Username = strings.TrimSpace(payload.Username)
	if payload.Username == "" || payload.Password == "" {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Username and password are required", nil)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", payload.Username).First(&opr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", nil)
	}

	if opr.Status != common.ENABLED {
		return fail(c, http.StatusUnauthorized, "ACCOUNT_DISABLED", "Account is disabled", nil)
	}
	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if hashed != opr.Password {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}

	claims := jwt.MapClaims{
		"opr_id":   opr.ID,
		"username": opr.Username,
		"level":    opr.Level,
		"email":    opr.Email,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(appConfig.Web.JwtSecret))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to sign token", nil)
	}

	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", time.Now())

	return ok(c, map[string]interface{}{
		"token": signed,
		"operator": map[string]interface{}{
			"id":       opr.ID,
			"username": opr.Username,
			"realname": opr.Realname,
			"level":    opr.Level,
			"email":    opr.Email,
		},
	})
}

func me(c echo.Context) error {
	var opr domain.SysOpr
	if err := GetDB(c).Where("id = ?", currentOprID(c)).First(&opr).Error; err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Operator not found", nil)
	}
	return ok(c, opr)
}
