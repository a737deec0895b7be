package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

// SystemConfig holds process-level settings.
type SystemConfig struct {
	Appid    string `yaml:"appid"`
	Location string `yaml:"location"`
	Workdir  string `yaml:"workdir"`
	Debug    bool   `yaml:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig locates the local bbolt database inside the workdir.
type StorageConfig struct {
	Filename string `yaml:"filename"`
}

// SyncConfig describes the remote JSON document store. Placeholder
// credentials leave the client in demo mode and no network I/O happens.
type SyncConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	InventoryBin string `yaml:"inventory_bin"`
	BillsBin     string `yaml:"bills_bin"`
	DebounceSec  int    `yaml:"debounce_sec"`
	TimeoutSec   int    `yaml:"timeout_sec"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode"`
	FileEnable bool   `yaml:"file_enable"`
	Filename   string `yaml:"filename"`
}

type JobConfig struct {
	BackupSpec string `yaml:"backup_spec"`
}

type AppConfig struct {
	System  SystemConfig  `yaml:"system"`
	Web     WebConfig     `yaml:"web"`
	Storage StorageConfig `yaml:"storage"`
	Sync    SyncConfig    `yaml:"sync"`
	Logger  LoggerConfig  `yaml:"logger"`
	Job     JobConfig     `yaml:"job"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SystemConfig{
			Appid:    "grocery",
			Location: "Asia/Kolkata",
			Workdir:  "/var/grocery",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 1889,
		},
		Storage: StorageConfig{
			Filename: "grocery.db",
		},
		Sync: SyncConfig{
			BaseURL:     "https://api.jsonbin.io/v3/b",
			DebounceSec: 3,
			TimeoutSec:  10,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "grocery.log",
		},
		Job: JobConfig{
			BackupSpec: "@daily",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults and then applies
// GROCERY_* environment overrides. A missing file is not an error.
func LoadConfig(path string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// keep defaults
		case err != nil:
			return nil, errors.Wrap(err, "read config")
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, errors.Wrap(err, "parse config")
			}
		}
	}
	cfg.applyEnv()
	if cfg.Sync.DebounceSec <= 0 {
		cfg.Sync.DebounceSec = 3
	}
	if cfg.Sync.TimeoutSec <= 0 {
		cfg.Sync.TimeoutSec = 10
	}
	return cfg, nil
}

func (c *AppConfig) applyEnv() {
	setEnvStr("GROCERY_WORKDIR", &c.System.Workdir)
	setEnvStr("GROCERY_WEB_HOST", &c.Web.Host)
	setEnvInt("GROCERY_WEB_PORT", &c.Web.Port)
	setEnvStr("GROCERY_SYNC_BASE_URL", &c.Sync.BaseURL)
	setEnvStr("GROCERY_SYNC_API_KEY", &c.Sync.APIKey)
	setEnvStr("GROCERY_SYNC_INVENTORY_BIN", &c.Sync.InventoryBin)
	setEnvStr("GROCERY_SYNC_BILLS_BIN", &c.Sync.BillsBin)
	setEnvStr("GROCERY_LOGGER_MODE", &c.Logger.Mode)
}

// StoragePath resolves the bbolt file under the workdir.
func (c *AppConfig) StoragePath() string {
	return filepath.Join(c.System.Workdir, c.Storage.Filename)
}

func setEnvStr(key string, target *string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}

func setEnvInt(key string, target *int) {
	if v := os.Getenv(key); v != "" {
		if n := cast.ToInt(v); n > 0 {
			*target = n
		}
	}
}
