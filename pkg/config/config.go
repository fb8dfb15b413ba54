package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	Service       ServiceConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Catalog       CatalogConfig
	Cart          CartConfig
	Telegram      TelegramConfig
	NovaPoshta    NovaPoshtaConfig
	Google        GoogleConfig
	PubSub        PubSubConfig
	Cron          CronConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Catalog.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string   `envconfig:"SMOKEHOUSE_APP_ENV" required:"true"`
	Port         string   `envconfig:"SMOKEHOUSE_APP_PORT" required:"true"`
	LogLevel     string   `envconfig:"SMOKEHOUSE_LOG_LEVEL" default:"info"`
	LogWarnStack bool     `envconfig:"SMOKEHOUSE_LOG_WARN_STACK" default:"false"`
	CORSOrigins  []string `envconfig:"SMOKEHOUSE_CORS_ORIGINS" default:"http://localhost:5173"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"SMOKEHOUSE_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"SMOKEHOUSE_DB_DSN"`
	Driver string `envconfig:"SMOKEHOUSE_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SMOKEHOUSE_DB_HOST"`
	Port     int    `envconfig:"SMOKEHOUSE_DB_PORT" default:"5432"`
	User     string `envconfig:"SMOKEHOUSE_DB_USER"`
	Password string `envconfig:"SMOKEHOUSE_DB_PASSWORD"`
	Name     string `envconfig:"SMOKEHOUSE_DB_NAME"`
	SSLMode  string `envconfig:"SMOKEHOUSE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SMOKEHOUSE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"SMOKEHOUSE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"SMOKEHOUSE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SMOKEHOUSE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// IsSQLite reports whether the embedded sqlite driver is selected.
func (db DBConfig) IsSQLite() bool {
	return strings.EqualFold(strings.TrimSpace(db.Driver), DBDriverSQLite)
}

type RedisConfig struct {
	URL          string        `envconfig:"SMOKEHOUSE_REDIS_URL"`
	Address      string        `envconfig:"SMOKEHOUSE_REDIS_ADDR"`
	Password     string        `envconfig:"SMOKEHOUSE_REDIS_PASSWORD"`
	DB           int           `envconfig:"SMOKEHOUSE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SMOKEHOUSE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SMOKEHOUSE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SMOKEHOUSE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SMOKEHOUSE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SMOKEHOUSE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"SMOKEHOUSE_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"SMOKEHOUSE_JWT_ISSUER" default:"smokehouse"`
	ExpirationMinutes      int    `envconfig:"SMOKEHOUSE_JWT_EXPIRATION_MINUTES" default:"60"`
	RefreshTokenTTLMinutes int    `envconfig:"SMOKEHOUSE_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SMOKEHOUSE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SMOKEHOUSE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SMOKEHOUSE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SMOKEHOUSE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SMOKEHOUSE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"SMOKEHOUSE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	AutoMigrate     bool `envconfig:"SMOKEHOUSE_AUTO_MIGRATE" default:"false"`
	CatalogSnapshot bool `envconfig:"SMOKEHOUSE_CATALOG_SNAPSHOT" default:"true"`
}

type CatalogConfig struct {
	ProductsURL  string        `envconfig:"SMOKEHOUSE_PRODUCTS_SHEET_URL"`
	BannersURL   string        `envconfig:"SMOKEHOUSE_BANNERS_SHEET_URL"`
	FetchTimeout time.Duration `envconfig:"SMOKEHOUSE_CATALOG_FETCH_TIMEOUT" default:"15s"`
	SnapshotTTL  time.Duration `envconfig:"SMOKEHOUSE_CATALOG_SNAPSHOT_TTL" default:"10m"`
}

func (c CatalogConfig) validate() error {
	for name, raw := range map[string]string{EnvProductsSheetURL: c.ProductsURL, EnvBannersSheetURL: c.BannersURL} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("%s must be an absolute url", name)
		}
	}
	return nil
}

type CartConfig struct {
	TTL time.Duration `envconfig:"SMOKEHOUSE_CART_TTL" default:"720h"`
}

type TelegramConfig struct {
	BotToken string `envconfig:"SMOKEHOUSE_TELEGRAM_BOT_TOKEN"`
	ChatID   string `envconfig:"SMOKEHOUSE_TELEGRAM_CHAT_ID"`
	BaseURL  string `envconfig:"SMOKEHOUSE_TELEGRAM_BASE_URL" default:"https://api.telegram.org"`
}

// Enabled reports whether both credentials required to post an order are present.
func (t TelegramConfig) Enabled() bool {
	return strings.TrimSpace(t.BotToken) != "" && strings.TrimSpace(t.ChatID) != ""
}

type NovaPoshtaConfig struct {
	APIKey  string `envconfig:"SMOKEHOUSE_NOVAPOSHTA_API_KEY"`
	BaseURL string `envconfig:"SMOKEHOUSE_NOVAPOSHTA_BASE_URL" default:"https://api.novaposhta.ua/v2.0/json/"`
}

type GoogleConfig struct {
	OAuthClientID string `envconfig:"SMOKEHOUSE_GOOGLE_OAUTH_CLIENT_ID"`
}

type PubSubConfig struct {
	ProjectID   string `envconfig:"SMOKEHOUSE_GCP_PROJECT_ID"`
	OrdersTopic string `envconfig:"SMOKEHOUSE_PUBSUB_ORDERS_TOPIC"`
}

// Enabled reports whether order events should be mirrored to Pub/Sub.
func (p PubSubConfig) Enabled() bool {
	return strings.TrimSpace(p.ProjectID) != "" && strings.TrimSpace(p.OrdersTopic) != ""
}

type CronConfig struct {
	Interval time.Duration `envconfig:"SMOKEHOUSE_CRON_INTERVAL" default:"5m"`
	LockTTL  time.Duration `envconfig:"SMOKEHOUSE_CRON_LOCK_TTL" default:"4m"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	if db.IsSQLite() {
		db.DSN = defaultSQLiteDSN
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range discreteDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
