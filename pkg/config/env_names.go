package config

// EnvPrefix is passed to envconfig; individual fields carry explicit names so
// the prefix only matters for unnamed additions.
const EnvPrefix = "ASSETTRACK"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "ASSETTRACK_APP_ENV"
	EnvPort       = "ASSETTRACK_APP_PORT"
	EnvDBDSN      = "ASSETTRACK_DB_DSN"
	EnvDBHost     = "ASSETTRACK_DB_HOST"
	EnvDBUser     = "ASSETTRACK_DB_USER"
	EnvDBName     = "ASSETTRACK_DB_NAME"
	EnvRedisURL   = "ASSETTRACK_REDIS_URL"
	EnvJWTSecret  = "ASSETTRACK_JWT_SECRET"
	EnvJWTIssuer  = "ASSETTRACK_JWT_ISSUER"
	EnvJWTExpMins = "ASSETTRACK_JWT_EXPIRATION_MINUTES"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
