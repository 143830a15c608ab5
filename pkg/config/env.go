package config

const EnvPrefix = "CLUBFIN"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const (
	EnvAppEnv    = "CLUBFIN_APP_ENV"
	EnvLogLevel  = "CLUBFIN_LOG_LEVEL"
	EnvLogFormat = "CLUBFIN_LOG_FORMAT"

	EnvDBDSN    = "CLUBFIN_DB_DSN"
	EnvDBDriver = "CLUBFIN_DB_DRIVER"
	EnvDBHost   = "CLUBFIN_DB_HOST"
	EnvDBPort   = "CLUBFIN_DB_PORT"
	EnvDBUser   = "CLUBFIN_DB_USER"
	EnvDBName   = "CLUBFIN_DB_NAME"

	EnvRedisURL = "CLUBFIN_REDIS_URL"

	EnvBackfillDueDays = "CLUBFIN_BACKFILL_DUE_BUSINESS_DAYS"
	EnvBackfillLockTTL = "CLUBFIN_BACKFILL_LOCK_TTL"

	EnvPushgatewayURL = "CLUBFIN_METRICS_PUSHGATEWAY_URL"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
