package config

// EnvPrefix scopes every environment variable the service reads.
const EnvPrefix = "AGRIMART"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

const (
	EnvAppEnv     = "AGRIMART_APP_ENV"
	EnvPort       = "AGRIMART_APP_PORT"
	EnvDBDSN      = "AGRIMART_DB_DSN"
	EnvDBHost     = "AGRIMART_DB_HOST"
	EnvDBUser     = "AGRIMART_DB_USER"
	EnvDBName     = "AGRIMART_DB_NAME"
	EnvRedisURL   = "AGRIMART_REDIS_URL"
	EnvJWTSecret  = "AGRIMART_JWT_SECRET"
	EnvJWTIssuer  = "AGRIMART_JWT_ISSUER"
	EnvJWTExpMins = "AGRIMART_JWT_EXPIRATION_MINUTES"

	EnvESewaSecretKey   = "AGRIMART_ESEWA_SECRET_KEY"
	EnvESewaProductCode = "AGRIMART_ESEWA_PRODUCT_CODE"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
