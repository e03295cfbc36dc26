package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App     AppConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	DB      DBConfig
	Metrics MetricsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validate(cfg.Catalog.Source); err != nil {
		return nil, err
	}
	if cfg.App.IsProd() && cfg.DB.AutoMigrate {
		return nil, fmt.Errorf("%s cannot be enabled when %s=%s", EnvDBAutoMigrate, EnvAppEnv, AppEnvProd)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CART_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"CART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type CatalogConfig struct {
	Source     string        `envconfig:"CART_CATALOG_SOURCE" default:"http"`
	BaseURL    string        `envconfig:"CART_CATALOG_BASE_URL" default:"https://equalexperts.github.io/backend-take-home-test-data"`
	Timeout    time.Duration `envconfig:"CART_CATALOG_TIMEOUT" default:"5s"`
	MaxRetries int           `envconfig:"CART_CATALOG_MAX_RETRIES" default:"3"`
	BaseDelay  time.Duration `envconfig:"CART_CATALOG_BASE_DELAY" default:"200ms"`
}

func (c CatalogConfig) validate() error {
	switch c.Source {
	case CatalogSourceHTTP:
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("parsing %s: %w", EnvCatalogBaseURL, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute url, got %q", EnvCatalogBaseURL, c.BaseURL)
		}
	case CatalogSourceStatic, CatalogSourceDB:
	default:
		return fmt.Errorf("%s must be one of %s, %s, %s; got %q",
			EnvCatalogSource, CatalogSourceHTTP, CatalogSourceStatic, CatalogSourceDB, c.Source)
	}
	if c.MaxRetries < 1 {
		return fmt.Errorf("%s must be at least 1", EnvCatalogMaxRetries)
	}
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CART_REDIS_URL"`
	Address      string        `envconfig:"CART_REDIS_ADDR"`
	Password     string        `envconfig:"CART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CART_REDIS_WRITE_TIMEOUT" default:"5s"`
	CacheTTL     time.Duration `envconfig:"CART_REDIS_CACHE_TTL" default:"10m"`
}

// Enabled reports whether a Redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type DBConfig struct {
	Driver string `envconfig:"CART_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"CART_DB_DSN"`

	AutoMigrate bool `envconfig:"CART_DB_AUTO_MIGRATE" default:"false"`

	MaxOpenConns    int           `envconfig:"CART_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"CART_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"CART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate(source string) error {
	switch db.Driver {
	case DBDriverPostgres, DBDriverSQLite:
	default:
		return fmt.Errorf("%s must be %s or %s, got %q", EnvDBDriver, DBDriverPostgres, DBDriverSQLite, db.Driver)
	}
	if source == CatalogSourceDB && db.DSN == "" {
		return fmt.Errorf("%s is required when %s=%s", EnvDBDSN, EnvCatalogSource, CatalogSourceDB)
	}
	return nil
}

type MetricsConfig struct {
	Enabled bool `envconfig:"CART_METRICS_ENABLED" default:"false"`
}
