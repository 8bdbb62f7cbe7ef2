package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "STOCKROOM"

	AppEnvDev  = "dev"
	AppEnvProd = "production"

	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	EnvAppEnv     = "STOCKROOM_APP_ENV"
	EnvPort       = "STOCKROOM_APP_PORT"
	EnvDBDriver   = "STOCKROOM_DB_DRIVER"
	EnvDBPath     = "STOCKROOM_DB_PATH"
	EnvDBDSN      = "STOCKROOM_DB_DSN"
	EnvBackupDir  = "STOCKROOM_BACKUP_DIR"
	EnvExportTZ   = "STOCKROOM_EXPORT_TIMEZONE"
	EnvLogLevel   = "STOCKROOM_LOG_LEVEL"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Backup       BackupConfig
	Export       ExportConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOCKROOM_APP_ENV" required:"true"`
	Port         string `envconfig:"STOCKROOM_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOCKROOM_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"STOCKROOM_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"STOCKROOM_DB_DRIVER" default:"sqlite"`
	Path   string `envconfig:"STOCKROOM_DB_PATH" default:"data/inventory.db"`
	DSN    string `envconfig:"STOCKROOM_DB_DSN"`

	BusyTimeout time.Duration `envconfig:"STOCKROOM_DB_BUSY_TIMEOUT" default:"5s"`

	MaxOpenConns    int           `envconfig:"STOCKROOM_DB_MAX_OPEN_CONNS" default:"0"`
	MaxIdleConns    int           `envconfig:"STOCKROOM_DB_MAX_IDLE_CONNS" default:"0"`
	ConnMaxLifetime time.Duration `envconfig:"STOCKROOM_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"STOCKROOM_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver uses a local store file.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(db.Driver, DriverSQLite)
}

type BackupConfig struct {
	Dir string `envconfig:"STOCKROOM_BACKUP_DIR" default:"backups"`
}

type ExportConfig struct {
	Timezone string `envconfig:"STOCKROOM_EXPORT_TIMEZONE" default:"Local"`
}

// Location resolves the configured export timezone, falling back to the
// system local zone when the name cannot be loaded.
func (e ExportConfig) Location() *time.Location {
	if loc, err := time.LoadLocation(e.Timezone); err == nil {
		return loc
	}
	return time.Local
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"STOCKROOM_AUTO_MIGRATE" default:"true"`
}

func (db *DBConfig) ensureDSN() error {
	switch strings.ToLower(db.Driver) {
	case DriverSQLite:
		if db.DSN != "" {
			return nil
		}
		if db.Path == "" {
			return fmt.Errorf("either %s or %s is required", EnvDBDSN, EnvDBPath)
		}
		q := url.Values{}
		q.Set("_fk", "1")
		q.Set("_busy_timeout", fmt.Sprintf("%d", db.BusyTimeout.Milliseconds()))
		db.DSN = fmt.Sprintf("file:%s?%s", db.Path, q.Encode())
		return nil
	case DriverPostgres:
		if db.DSN == "" {
			return fmt.Errorf("%s is required when %s=postgres", EnvDBDSN, EnvDBDriver)
		}
		return nil
	default:
		return fmt.Errorf("unsupported database driver %q", db.Driver)
	}
}
