package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Backfill     BackfillConfig
	Metrics      MetricsConfig
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
	if cfg.Backfill.DueBusinessDays < 0 {
		return nil, fmt.Errorf("%s must not be negative", EnvBackfillDueDays)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CLUBFIN_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"CLUBFIN_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"CLUBFIN_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"CLUBFIN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CLUBFIN_DB_DSN"`
	Driver string `envconfig:"CLUBFIN_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CLUBFIN_DB_HOST"`
	LegacyPort     int    `envconfig:"CLUBFIN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CLUBFIN_DB_USER"`
	LegacyPassword string `envconfig:"CLUBFIN_DB_PASSWORD"`
	LegacyName     string `envconfig:"CLUBFIN_DB_NAME"`
	LegacySSLMode  string `envconfig:"CLUBFIN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CLUBFIN_DB_MAX_OPEN_CONNS" default:"5"`
	MaxIdleConns    int           `envconfig:"CLUBFIN_DB_MAX_IDLE_CONNS" default:"2"`
	ConnMaxLifetime time.Duration `envconfig:"CLUBFIN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CLUBFIN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the configured driver is SQLite.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DriverSQLite)
}

// RedisConfig is optional; leaving both URL and address empty disables the run lock.
type RedisConfig struct {
	URL          string        `envconfig:"CLUBFIN_REDIS_URL"`
	Address      string        `envconfig:"CLUBFIN_REDIS_ADDR"`
	Password     string        `envconfig:"CLUBFIN_REDIS_PASSWORD"`
	DB           int           `envconfig:"CLUBFIN_REDIS_DB" default:"0"`
	DialTimeout  time.Duration `envconfig:"CLUBFIN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CLUBFIN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CLUBFIN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != "" || strings.TrimSpace(r.Address) != ""
}

type BackfillConfig struct {
	DueBusinessDays int           `envconfig:"CLUBFIN_BACKFILL_DUE_BUSINESS_DAYS" default:"8"`
	DefaultLimit    int           `envconfig:"CLUBFIN_BACKFILL_DEFAULT_LIMIT" default:"0"`
	LockTTL         time.Duration `envconfig:"CLUBFIN_BACKFILL_LOCK_TTL" default:"2h"`
}

type MetricsConfig struct {
	PushgatewayURL string `envconfig:"CLUBFIN_METRICS_PUSHGATEWAY_URL"`
	JobName        string `envconfig:"CLUBFIN_METRICS_JOB_NAME" default:"finance-backfill"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CLUBFIN_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}
	if db.IsSQLite() {
		return fmt.Errorf("%s is required for the sqlite driver", EnvDBDSN)
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
