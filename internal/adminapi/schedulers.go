package adminapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stocklane/stocklane/internal/domain"
	"github.com/stocklane/stocklane/internal/webserver"
)

func registerSchedulerRoutes() {
	webserver.ApiGET("/system/schedulers", listSchedulers)
	webserver.ApiPUT("/system/schedulers/:id", updateScheduler)
}

func listSchedulers(c echo.Context) error {
	var schedulers []domain.SysScheduler
	if err := GetDB(c).Order("id ASC").Find(&schedulers).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query schedulers", err.Error())
	}
	return ok(c, schedulers)
}

type schedulerPayload struct {
	Interval int    `json:"interval" form:"interval"`
	Status   string `json:"status" form:"status"`
	Remark   string `json:"remark" form:"remark"`
}

func updateScheduler(c echo.Context) error {
	if err := requireManager(c); err != nil {
		return err
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid scheduler ID", nil)
	}
	var payload schedulerPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse scheduler parameters", nil)
	}

	var sched domain.SysScheduler
	if err := GetDB(c).Where("id = ?", id).First(&sched).Error; errors.Is(err, gorm.ErrRecordNotFound) {
		return fail(c, http.StatusNotFound, "SCHEDULER_NOT_FOUND", "Scheduler not found", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query scheduler", err.Error())
	}

	updates := map[string]interface{}{"updated_at": time.Now()}
	if payload.Interval > 0 {
		updates["interval"] = payload.Interval
		updates["next_run_at"] = time.Now().Add(time.Duration(payload.Interval) * time.Second)
	}
	if payload.Status != "" {
		if payload.Status != "enabled" && payload.Status != "disabled" {
			return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Status must be 'enabled' or 'disabled'", nil)
		}
		updates["status"] = payload.Status
	}
	if payload.Remark != "" {
		updates["remark"] = payload.Remark
	}
	if err := GetDB(c).Model(&sched).Updates(updates).Error; err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update scheduler", err.Error())
	}
	GetDB(c).Where("id = ?", id).First(&sched)
	return ok(c, sched)
}
