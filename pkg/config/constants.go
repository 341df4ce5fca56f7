package config

// EnvPrefix is the envconfig prefix shared by every binary.
const EnvPrefix = "STORELANE"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

// Environment variable names referenced outside struct tags (tests, error messages).
const (
	EnvAppEnv = "STORELANE_APP_ENV"
	EnvPort   = "STORELANE_APP_PORT"

	EnvDBDSN  = "STORELANE_DB_DSN"
	EnvDBHost = "STORELANE_DB_HOST"
	EnvDBUser = "STORELANE_DB_USER"
	EnvDBName = "STORELANE_DB_NAME"

	EnvRedisURL = "STORELANE_REDIS_URL"

	EnvJWTSecret   = "STORELANE_JWT_SECRET"
	EnvJWTIssuer   = "STORELANE_JWT_ISSUER"
	EnvJWTAudience = "STORELANE_JWT_AUDIENCE"

	EnvPubSubCatalogTopic = "STORELANE_PUBSUB_CATALOG_TOPIC"
	EnvPubSubOrdersTopic  = "STORELANE_PUBSUB_ORDERS_TOPIC"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}
