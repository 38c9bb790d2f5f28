package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	Service      ServiceConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	ESewa        ESewaConfig
	Checkout     CheckoutConfig
	Realtime     RealtimeConfig
	FeatureFlags FeatureFlagsConfig
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
	Env          string `envconfig:"AGRIMART_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRIMART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRIMART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRIMART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"AGRIMART_SERVICE_KIND" default:"api"`
}

type DBConfig struct {
	DSN    string `envconfig:"AGRIMART_DB_DSN"`
	Driver string `envconfig:"AGRIMART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRIMART_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRIMART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRIMART_DB_USER"`
	LegacyPassword string `envconfig:"AGRIMART_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRIMART_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRIMART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRIMART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRIMART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRIMART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRIMART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRIMART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRIMART_REDIS_ADDR"`
	Password     string        `envconfig:"AGRIMART_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRIMART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRIMART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRIMART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRIMART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRIMART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRIMART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AGRIMART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AGRIMART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AGRIMART_JWT_EXPIRATION_MINUTES" required:"true"`
}

// ESewaConfig holds the gateway credentials used to sign and verify
// payment callbacks.
type ESewaConfig struct {
	ProductCode string `envconfig:"AGRIMART_ESEWA_PRODUCT_CODE" default:"EPAYTEST"`
	SecretKey   string `envconfig:"AGRIMART_ESEWA_SECRET_KEY" required:"true"`
	SuccessURL  string `envconfig:"AGRIMART_ESEWA_SUCCESS_URL"`
	FailureURL  string `envconfig:"AGRIMART_ESEWA_FAILURE_URL"`
}

type CheckoutConfig struct {
	DeliveryCharge      float64 `envconfig:"AGRIMART_CHECKOUT_DELIVERY_CHARGE" default:"100"`
	MinWithdrawalAmount float64 `envconfig:"AGRIMART_MIN_WITHDRAWAL_AMOUNT" default:"100"`
}

type RealtimeConfig struct {
	ChannelPrefix string `envconfig:"AGRIMART_REALTIME_CHANNEL_PREFIX" default:"agrimart"`
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"AGRIMART_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"AGRIMART_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
