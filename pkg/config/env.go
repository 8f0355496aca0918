package config

// EnvPrefix scopes the envconfig lookups for nested struct tags.
const EnvPrefix = "BUSLINE"

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

const (
	EnvAppEnv    = "BUSLINE_APP_ENV"
	EnvPort      = "BUSLINE_APP_PORT"
	EnvDBDSN     = "BUSLINE_DB_DSN"
	EnvDBHost    = "BUSLINE_DB_HOST"
	EnvDBUser    = "BUSLINE_DB_USER"
	EnvDBName    = "BUSLINE_DB_NAME"
	EnvRedisURL  = "BUSLINE_REDIS_URL"
	EnvJWTSecret = "BUSLINE_JWT_SECRET"
	EnvJWTIssuer = "BUSLINE_JWT_ISSUER"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
