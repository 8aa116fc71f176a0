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
	DB           DBConfig
	Redis        RedisConfig
	Booking      BookingConfig
	Calendar     CalendarConfig
	Stripe       StripeConfig
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
	Env          string `envconfig:"TOURS_APP_ENV" required:"true"`
	Port         string `envconfig:"TOURS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TOURS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TOURS_LOG_WARN_STACK" default:"false"`
	BaseURL      string `envconfig:"TOURS_APP_BASE_URL" default:"http://localhost:3000"`

	CORSOrigins []string `envconfig:"TOURS_CORS_ORIGINS" default:"http://localhost:3000"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TOURS_DB_DSN"`
	Driver string `envconfig:"TOURS_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"TOURS_DB_HOST"`
	Port     int    `envconfig:"TOURS_DB_PORT" default:"5432"`
	User     string `envconfig:"TOURS_DB_USER"`
	Password string `envconfig:"TOURS_DB_PASSWORD"`
	Name     string `envconfig:"TOURS_DB_NAME"`
	SSLMode  string `envconfig:"TOURS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TOURS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TOURS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TOURS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TOURS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TOURS_REDIS_URL"`
	Address      string        `envconfig:"TOURS_REDIS_ADDR"`
	Password     string        `envconfig:"TOURS_REDIS_PASSWORD"`
	DB           int           `envconfig:"TOURS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TOURS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TOURS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TOURS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TOURS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TOURS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// BookingConfig carries booking policy knobs that vary per environment.
type BookingConfig struct {
	IdempotencyTTL  time.Duration `envconfig:"TOURS_BOOKING_IDEMPOTENCY_TTL" default:"24h"`
	B2BMinPeople    int           `envconfig:"TOURS_BOOKING_B2B_MIN_PEOPLE" default:"15"`
	FixedSlotMinima int           `envconfig:"TOURS_BOOKING_FIXED_SLOT_MIN_PEOPLE" default:"4"`
	Timezone        string        `envconfig:"TOURS_BOOKING_TIMEZONE" default:"Europe/Brussels"`
}

// Location resolves the timezone tour start times are entered in. Booking
// creation and the availability checker must share it, or the same wall-clock
// selection would land on different instants.
func (b BookingConfig) Location() (*time.Location, error) {
	name := strings.TrimSpace(b.Timezone)
	if name == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("parsing booking timezone: %w", err)
	}
	return loc, nil
}

// CalendarConfig configures the external guide-calendar free/busy service.
type CalendarConfig struct {
	BaseURL    string        `envconfig:"TOURS_CALENDAR_BASE_URL"`
	CalendarID string        `envconfig:"TOURS_CALENDAR_ID"`
	APIToken   string        `envconfig:"TOURS_CALENDAR_API_TOKEN"`
	Timeout    time.Duration `envconfig:"TOURS_CALENDAR_TIMEOUT" default:"10s"`
}

type StripeConfig struct {
	APIKey     string `envconfig:"TOURS_STRIPE_API_KEY"`
	Env        string `envconfig:"TOURS_STRIPE_ENV" default:"test"`
	SuccessURL string `envconfig:"TOURS_STRIPE_SUCCESS_URL"`
	CancelURL  string `envconfig:"TOURS_STRIPE_CANCEL_URL"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

type FeatureFlagsConfig struct {
	UseSQLite   bool `envconfig:"TOURS_USE_SQLITE" default:"false"`
	AutoMigrate bool `envconfig:"TOURS_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, envVar := range requiredDBEnvVars {
		if values[envVar] == "" {
			missing = append(missing, envVar)
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
