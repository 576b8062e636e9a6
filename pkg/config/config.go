package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	EnvPrefix = "SPEEDYVAN"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "SPEEDYVAN_DB_DSN"
	EnvDBHost = "SPEEDYVAN_DB_HOST"
	EnvDBUser = "SPEEDYVAN_DB_USER"
	EnvDBName = "SPEEDYVAN_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App        AppConfig
	DB         DBConfig
	Redis      RedisConfig
	GoogleMaps GoogleMapsConfig
	Stripe     StripeConfig
	Pricing    PricingConfig
	RateLimit  RateLimitConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Pricing.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPEEDYVAN_APP_ENV" required:"true"`
	Port         string `envconfig:"SPEEDYVAN_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPEEDYVAN_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPEEDYVAN_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN         string `envconfig:"SPEEDYVAN_DB_DSN"`
	Driver      string `envconfig:"SPEEDYVAN_DB_DRIVER" default:"postgres"`
	AutoMigrate bool   `envconfig:"SPEEDYVAN_DB_AUTO_MIGRATE" default:"false"`

	LegacyHost     string `envconfig:"SPEEDYVAN_DB_HOST"`
	LegacyPort     int    `envconfig:"SPEEDYVAN_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SPEEDYVAN_DB_USER"`
	LegacyPassword string `envconfig:"SPEEDYVAN_DB_PASSWORD"`
	LegacyName     string `envconfig:"SPEEDYVAN_DB_NAME"`
	LegacySSLMode  string `envconfig:"SPEEDYVAN_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPEEDYVAN_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPEEDYVAN_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPEEDYVAN_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPEEDYVAN_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SPEEDYVAN_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SPEEDYVAN_REDIS_ADDR"`
	Password     string        `envconfig:"SPEEDYVAN_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPEEDYVAN_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPEEDYVAN_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPEEDYVAN_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPEEDYVAN_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPEEDYVAN_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPEEDYVAN_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type GoogleMapsConfig struct {
	APIKey string `envconfig:"SPEEDYVAN_GOOGLE_MAPS_API_KEY"`
}

type StripeConfig struct {
	APIKey string `envconfig:"SPEEDYVAN_STRIPE_API_KEY"`
	Secret string `envconfig:"SPEEDYVAN_STRIPE_SECRET"`
	Env    string `envconfig:"SPEEDYVAN_STRIPE_ENV" default:"test"`

	SuccessURL string `envconfig:"SPEEDYVAN_STRIPE_SUCCESS_URL" default:"https://speedy-van.co.uk/success?session_id={CHECKOUT_SESSION_ID}"`
	CancelURL  string `envconfig:"SPEEDYVAN_STRIPE_CANCEL_URL" default:"https://speedy-van.co.uk/cancel"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// PricingConfig holds the rate-card policy constants. Rates are data, not
// logic: a change here is a data change and must not require code changes.
type PricingConfig struct {
	BasePrice            decimal.Decimal `envconfig:"SPEEDYVAN_PRICING_BASE_PRICE" default:"20"`
	DistanceRatePerKm    decimal.Decimal `envconfig:"SPEEDYVAN_PRICING_DISTANCE_RATE_PER_KM" default:"0.5"`
	TwoWorkerSurcharge   decimal.Decimal `envconfig:"SPEEDYVAN_PRICING_TWO_WORKER_SURCHARGE" default:"20"`
	FlexibleTimeDiscount decimal.Decimal `envconfig:"SPEEDYVAN_PRICING_FLEXIBLE_TIME_DISCOUNT" default:"0.05"`
	TierQtyThreshold     int             `envconfig:"SPEEDYVAN_PRICING_TIER_QTY_THRESHOLD" default:"5"`
	DistanceCacheTTL     time.Duration   `envconfig:"SPEEDYVAN_PRICING_DISTANCE_CACHE_TTL" default:"10m"`
}

func (p PricingConfig) validate() error {
	if p.DistanceRatePerKm.Sign() <= 0 {
		return fmt.Errorf("distance rate per km must be positive")
	}
	if p.FlexibleTimeDiscount.Sign() < 0 || p.FlexibleTimeDiscount.Cmp(decimal.NewFromInt(1)) >= 0 {
		return fmt.Errorf("flexible time discount must be in [0, 1)")
	}
	if p.TierQtyThreshold < 1 {
		return fmt.Errorf("tier quantity threshold must be at least 1")
	}
	return nil
}

type RateLimitConfig struct {
	QuoteWindow  time.Duration `envconfig:"SPEEDYVAN_RATE_LIMIT_QUOTE_WINDOW" default:"1m"`
	QuoteIPLimit int           `envconfig:"SPEEDYVAN_RATE_LIMIT_QUOTE_IP_LIMIT" default:"60"`
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
