package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "development"
	AppEnvProd = "production"
)

// Environment variable names referenced by tests and tooling.
const (
	EnvAppEnv           = "POSBRIDGE_APP_ENV"
	EnvDBDSN            = "POSBRIDGE_DB_DSN"
	EnvRedisURL         = "POSBRIDGE_REDIS_URL"
	EnvLightspeedAPIURL = "POSBRIDGE_LIGHTSPEED_API_URL"
	EnvLightspeedAPIKey = "POSBRIDGE_LIGHTSPEED_API_KEY"
)

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	Lightspeed LightspeedConfig
	Sync       SyncConfig
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
	Env          string `envconfig:"POSBRIDGE_APP_ENV" required:"true"`
	LogLevel     string `envconfig:"POSBRIDGE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POSBRIDGE_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"POSBRIDGE_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"POSBRIDGE_DB_DSN"`
	Driver string `envconfig:"POSBRIDGE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"POSBRIDGE_DB_HOST"`
	LegacyPort     int    `envconfig:"POSBRIDGE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"POSBRIDGE_DB_USER"`
	LegacyPassword string `envconfig:"POSBRIDGE_DB_PASSWORD"`
	LegacyName     string `envconfig:"POSBRIDGE_DB_NAME"`
	LegacySSLMode  string `envconfig:"POSBRIDGE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"POSBRIDGE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"POSBRIDGE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"POSBRIDGE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"POSBRIDGE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if strings.TrimSpace(d.DSN) != "" {
		return nil
	}
	if d.LegacyHost == "" || d.LegacyUser == "" || d.LegacyName == "" {
		return fmt.Errorf("database DSN is required (set %s or the host/user/name variables)", EnvDBDSN)
	}
	d.DSN = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(d.LegacyUser),
		url.QueryEscape(d.LegacyPassword),
		d.LegacyHost,
		d.LegacyPort,
		d.LegacyName,
		d.LegacySSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"POSBRIDGE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"POSBRIDGE_REDIS_ADDR"`
	Password     string        `envconfig:"POSBRIDGE_REDIS_PASSWORD"`
	DB           int           `envconfig:"POSBRIDGE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"POSBRIDGE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"POSBRIDGE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"POSBRIDGE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"POSBRIDGE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"POSBRIDGE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// LightspeedConfig configures the vendor API client.
type LightspeedConfig struct {
	BaseURL        string        `envconfig:"POSBRIDGE_LIGHTSPEED_API_URL" required:"true"`
	APIKey         string        `envconfig:"POSBRIDGE_LIGHTSPEED_API_KEY" required:"true"`
	PageSize       int           `envconfig:"POSBRIDGE_LIGHTSPEED_PAGE_SIZE" default:"100"`
	RequestTimeout time.Duration `envconfig:"POSBRIDGE_LIGHTSPEED_REQUEST_TIMEOUT" default:"5s"`

	// FakePageToken is the placeholder continuation token some mock gateways echo
	// back verbatim. Pagination stops when it is seen.
	FakePageToken string `envconfig:"POSBRIDGE_LIGHTSPEED_FAKE_PAGE_TOKEN" default:"string"`
}

// SyncConfig tunes the sync worker cadence and batch fan-out.
type SyncConfig struct {
	Interval           time.Duration `envconfig:"POSBRIDGE_SYNC_INTERVAL" default:"1h"`
	MaxConcurrentConns int           `envconfig:"POSBRIDGE_SYNC_MAX_CONCURRENT_CONNECTIONS" default:"4"`
	InitialLookback    time.Duration `envconfig:"POSBRIDGE_SYNC_INITIAL_LOOKBACK" default:"24h"`
	LockTTL            time.Duration `envconfig:"POSBRIDGE_SYNC_LOCK_TTL" default:"2h"`
	DefaultTimezone    string        `envconfig:"POSBRIDGE_SYNC_DEFAULT_TIMEZONE" default:"UTC"`
}
