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
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Tax           TaxConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if !cfg.FeatureFlags.UseMemoryStore {
		if err := cfg.DB.ensureDSN(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"RETAILFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"RETAILFLOW_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"RETAILFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"RETAILFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"RETAILFLOW_DB_DSN"`
	Driver string `envconfig:"RETAILFLOW_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"RETAILFLOW_DB_HOST"`
	LegacyPort     int    `envconfig:"RETAILFLOW_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"RETAILFLOW_DB_USER"`
	LegacyPassword string `envconfig:"RETAILFLOW_DB_PASSWORD"`
	LegacyName     string `envconfig:"RETAILFLOW_DB_NAME"`
	LegacySSLMode  string `envconfig:"RETAILFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"RETAILFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"RETAILFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"RETAILFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"RETAILFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"RETAILFLOW_REDIS_URL"`
	Address      string        `envconfig:"RETAILFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"RETAILFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"RETAILFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"RETAILFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"RETAILFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"RETAILFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"RETAILFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"RETAILFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a Redis endpoint was configured at all. The API
// degrades to no idempotency replay and no login throttling without one.
func (r RedisConfig) Enabled() bool {
	return r.URL != "" || r.Address != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"RETAILFLOW_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"RETAILFLOW_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"RETAILFLOW_JWT_EXPIRATION_MINUTES" default:"1440"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"RETAILFLOW_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginUsernameLimit int           `envconfig:"RETAILFLOW_AUTH_RATE_LIMIT_LOGIN_USERNAME_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"RETAILFLOW_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseMemoryStore bool `envconfig:"RETAILFLOW_USE_MEMORY_STORE" default:"false"`
	AutoMigrate    bool `envconfig:"RETAILFLOW_AUTO_MIGRATE" default:"false"`
}

type TaxConfig struct {
	// RatePercent is applied to every checkout subtotal. The POS clients
	// display the same fixed rate.
	RatePercent string `envconfig:"RETAILFLOW_TAX_RATE_PERCENT" default:"12.5"`
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
