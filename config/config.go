package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SystemConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host      string `yaml:"host" json:"host"`
	Port      int    `yaml:"port" json:"port"`
	JwtSecret string `yaml:"jwt_secret" json:"jwt_secret"`
}

type DBConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type SmtpConfig struct {
	Enabled  bool   `yaml:"enabled" json:"enabled"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
	From     string `yaml:"from" json:"from"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SystemConfig `yaml:"system" json:"system"`
	Web      WebConfig    `yaml:"web" json:"web"`
	Database DBConfig     `yaml:"database" json:"database"`
	Smtp     SmtpConfig   `yaml:"smtp" json:"smtp"`
	Logger   LoggerConfig `yaml:"logger" json:"logger"`
}

var DefaultAppConfig = &AppConfig{
	System: SystemConfig{
		Appid:    "stocklane",
		Location: "Asia/Shanghai",
		Workdir:  "/var/stocklane",
		Debug:    true,
	},
	Web: WebConfig{
		Host:      "0.0.0.0",
		Port:      1816,
		JwtSecret: "9b6de5cc-0731-1203-xxtt-0f568ac9da37",
	},
	Database: DBConfig{
		Type:     "postgres",
		Host:     "127.0.0.1",
		Port:     5432,
		Name:     "stocklane",
		User:     "postgres",
		Passwd:   "postgres",
		MaxConn:  100,
		IdleConn: 10,
	},
	Smtp: SmtpConfig{
		Enabled: false,
		Host:    "127.0.0.1",
		Port:    25,
		From:    "Inventory System <noreply@stocklane.local>",
	},
	Logger: LoggerConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/stocklane/stocklane.log",
	},
}

func setEnvValue(name string, val *string) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	var evalue = os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig loads the YAML config file when present and applies
// environment variable overrides on top of it.
func LoadConfig(cfile string) *AppConfig {
	if cfile == "" {
		cfile = "stocklane.yml"
	}
	cfg := DefaultAppConfig
	if _, err := os.Stat(cfile); !os.IsNotExist(err) {
		data, err := os.ReadFile(cfile)
		if err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("STOCKLANE_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STOCKLANE_SYSTEM_DEBUG", &cfg.System.Debug)

	setEnvValue("STOCKLANE_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOCKLANE_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOCKLANE_WEB_JWT_SECRET", &cfg.Web.JwtSecret)

	setEnvValue("STOCKLANE_DB_TYPE", &cfg.Database.Type)
	setEnvValue("STOCKLANE_DB_HOST", &cfg.Database.Host)
	setEnvIntValue("STOCKLANE_DB_PORT", &cfg.Database.Port)
	setEnvValue("STOCKLANE_DB_NAME", &cfg.Database.Name)
	setEnvValue("STOCKLANE_DB_USER", &cfg.Database.User)
	setEnvValue("STOCKLANE_DB_PWD", &cfg.Database.Passwd)

	setEnvBoolValue("STOCKLANE_SMTP_ENABLED", &cfg.Smtp.Enabled)
	setEnvValue("STOCKLANE_SMTP_HOST", &cfg.Smtp.Host)
	setEnvIntValue("STOCKLANE_SMTP_PORT", &cfg.Smtp.Port)
	setEnvValue("STOCKLANE_SMTP_USERNAME", &cfg.Smtp.Username)
	setEnvValue("STOCKLANE_SMTP_PASSWORD", &cfg.Smtp.Password)
	setEnvValue("STOCKLANE_SMTP_FROM", &cfg.Smtp.From)

	_ = os.MkdirAll(cfg.System.Workdir, 0755)
	_ = os.MkdirAll(filepath.Join(cfg.System.Workdir, "logs"), 0755)

	return cfg
}
