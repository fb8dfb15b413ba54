package config

const (
	EnvPrefix = "SMOKEHOUSE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	DBDriverPostgres = "postgres"
	DBDriverSQLite   = "sqlite"

	defaultSQLiteDSN = "file:smokehouse.db?cache=shared&_foreign_keys=on"
)

const (
	EnvAppEnv                  = "SMOKEHOUSE_APP_ENV"
	EnvPort                    = "SMOKEHOUSE_APP_PORT"
	EnvDBDSN                   = "SMOKEHOUSE_DB_DSN"
	EnvDBDriver                = "SMOKEHOUSE_DB_DRIVER"
	EnvDBHost                  = "SMOKEHOUSE_DB_HOST"
	EnvDBUser                  = "SMOKEHOUSE_DB_USER"
	EnvDBName                  = "SMOKEHOUSE_DB_NAME"
	EnvDBPassword              = "SMOKEHOUSE_DB_PASSWORD"
	EnvRedisURL                = "SMOKEHOUSE_REDIS_URL"
	EnvJWTSecret               = "SMOKEHOUSE_JWT_SECRET"
	EnvJWTIssuer               = "SMOKEHOUSE_JWT_ISSUER"
	EnvJWTExpMins              = "SMOKEHOUSE_JWT_EXPIRATION_MINUTES"
	EnvRefreshTokenTTLMinutes  = "SMOKEHOUSE_REFRESH_TOKEN_TTL_MINUTES"
	EnvProductsSheetURL        = "SMOKEHOUSE_PRODUCTS_SHEET_URL"
	EnvBannersSheetURL         = "SMOKEHOUSE_BANNERS_SHEET_URL"
	EnvCatalogSnapshotTTL      = "SMOKEHOUSE_CATALOG_SNAPSHOT_TTL"
	EnvTelegramBotToken        = "SMOKEHOUSE_TELEGRAM_BOT_TOKEN"
	EnvTelegramChatID          = "SMOKEHOUSE_TELEGRAM_CHAT_ID"
	EnvNovaPoshtaAPIKey        = "SMOKEHOUSE_NOVAPOSHTA_API_KEY"
	EnvPubSubOrdersTopic       = "SMOKEHOUSE_PUBSUB_ORDERS_TOPIC"
	EnvGCPProjectID            = "SMOKEHOUSE_GCP_PROJECT_ID"
	EnvCORSOrigins             = "SMOKEHOUSE_CORS_ORIGINS"
	EnvGoogleOAuthClientID     = "SMOKEHOUSE_GOOGLE_OAUTH_CLIENT_ID"
	EnvCronInterval            = "SMOKEHOUSE_CRON_INTERVAL"
	EnvCartTTL                 = "SMOKEHOUSE_CART_TTL"
	EnvAuthLoginEmailRateLimit = "SMOKEHOUSE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT"
)

var discreteDBEnvVars = []string{
	EnvDBHost,
	EnvDBUser,
	EnvDBName,
}
