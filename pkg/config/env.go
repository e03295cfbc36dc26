package config

const EnvPrefix = "CART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	CatalogSourceHTTP   = "http"
	CatalogSourceStatic = "static"
	CatalogSourceDB     = "db"
)

const (
	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"
)

// Environment variable names, kept in sync with the struct tags in config.go.
const (
	EnvAppEnv            = "CART_APP_ENV"
	EnvLogLevel          = "CART_LOG_LEVEL"
	EnvCatalogSource     = "CART_CATALOG_SOURCE"
	EnvCatalogBaseURL    = "CART_CATALOG_BASE_URL"
	EnvCatalogTimeout    = "CART_CATALOG_TIMEOUT"
	EnvCatalogMaxRetries = "CART_CATALOG_MAX_RETRIES"
	EnvRedisURL          = "CART_REDIS_URL"
	EnvRedisCacheTTL     = "CART_REDIS_CACHE_TTL"
	EnvDBDriver          = "CART_DB_DRIVER"
	EnvDBDSN             = "CART_DB_DSN"
	EnvDBAutoMigrate     = "CART_DB_AUTO_MIGRATE"
	EnvMetricsEnabled    = "CART_METRICS_ENABLED"
)
