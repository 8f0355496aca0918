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
	Booking      BookingConfig
	Schedule     ScheduleConfig
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
	Env          string `envconfig:"BUSLINE_APP_ENV" required:"true"`
	Port         string `envconfig:"BUSLINE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"BUSLINE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"BUSLINE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type ServiceConfig struct {
	Kind string `envconfig:"BUSLINE_SERVICE_KIND" default:"schedule"`
}

type DBConfig struct {
	DSN    string `envconfig:"BUSLINE_DB_DSN"`
	Driver string `envconfig:"BUSLINE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BUSLINE_DB_HOST"`
	LegacyPort     int    `envconfig:"BUSLINE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BUSLINE_DB_USER"`
	LegacyPassword string `envconfig:"BUSLINE_DB_PASSWORD"`
	LegacyName     string `envconfig:"BUSLINE_DB_NAME"`
	LegacySSLMode  string `envconfig:"BUSLINE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BUSLINE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BUSLINE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BUSLINE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BUSLINE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// RedisConfig is consumed by the reservation service for response idempotency.
// The schedule service runs without Redis, so the URL is not globally required.
type RedisConfig struct {
	URL          string        `envconfig:"BUSLINE_REDIS_URL"`
	Address      string        `envconfig:"BUSLINE_REDIS_ADDR"`
	Password     string        `envconfig:"BUSLINE_REDIS_PASSWORD"`
	DB           int           `envconfig:"BUSLINE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BUSLINE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BUSLINE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BUSLINE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BUSLINE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BUSLINE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret string `envconfig:"BUSLINE_JWT_SECRET" required:"true"`
	Issuer string `envconfig:"BUSLINE_JWT_ISSUER" required:"true"`
}

// BookingConfig bounds the orchestrator's allocation and compensation behavior.
type BookingConfig struct {
	MaxSeatsPerRequest      int           `envconfig:"BUSLINE_BOOKING_MAX_SEATS_PER_REQUEST" default:"10"`
	CompensationMaxAttempts int           `envconfig:"BUSLINE_BOOKING_COMPENSATION_MAX_ATTEMPTS" default:"5"`
	CompensationBackoff     time.Duration `envconfig:"BUSLINE_BOOKING_COMPENSATION_BACKOFF" default:"100ms"`
	IdempotencyTTL          time.Duration `envconfig:"BUSLINE_BOOKING_IDEMPOTENCY_TTL" default:"168h"`
}

// ScheduleConfig points the reservation service at its schedule authority peer.
type ScheduleConfig struct {
	BaseURL        string        `envconfig:"BUSLINE_SCHEDULE_BASE_URL"`
	RequestTimeout time.Duration `envconfig:"BUSLINE_SCHEDULE_REQUEST_TIMEOUT" default:"5s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BUSLINE_AUTO_MIGRATE" default:"false"`
	SeedDev     bool `envconfig:"BUSLINE_SEED_DEV" default:"false"`
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
