package app

import (
	"github.com/spf13/cast"
	"github.com/stocklane/stocklane/internal/domain"
)

// GetSettingsStringValue retrieves a string configuration value from sys_config
func (a *Application) GetSettingsStringValue(category, key string) string {
	var cfg domain.SysConfig
	if err := a.gormDB.Where("type = ? AND name = ?", category, key).First(&cfg).Error; err != nil {
		return ""
	}
	return cfg.Value
}

// GetSettingsInt64Value retrieves an int64 configuration value
func (a *Application) GetSettingsInt64Value(category, key string) int64 {
	return cast.ToInt64(a.GetSettingsStringValue(category, key))
}

// GetSettingsBoolValue retrieves a boolean configuration value
func (a *Application) GetSettingsBoolValue(category, key string) bool {
	return cast.ToBool(a.GetSettingsStringValue(category, key))
}
