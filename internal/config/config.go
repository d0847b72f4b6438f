package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Port               string        `env:"PORT" envDefault:"8080"`
	DBUrl              string        `env:"DB_URL,notEmpty"`
	AppEnv             string        `env:"APP_ENV" envDefault:"production"`
	EnableDocs         Flag          `env:"ENABLE_API_DOCS" envDefault:"false"`
	DBMaxConns         int32         `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns         int32         `env:"DB_MIN_CONNS" envDefault:"2"`
	BookingLockTimeout time.Duration `env:"BOOKING_LOCK_TIMEOUT" envDefault:"5s"`
	RequestTimeout     time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	RedisURL           string        `env:"REDIS_URL"`
	CoachCacheTTL      time.Duration `env:"COACH_CACHE_TTL" envDefault:"5m"`
	OTelEndpoint       string        `env:"OTEL_ENDPOINT"`
	OTelServiceName    string        `env:"OTEL_SERVICE_NAME" envDefault:"coachmatch"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	SeedOnStart        Flag          `env:"SEED_ON_START" envDefault:"false"`
	CORSAllowOrigins   string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
}

func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg.AppEnv = normalizeEnv(cfg.AppEnv)
	if cfg.DBMinConns > cfg.DBMaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if cfg.BookingLockTimeout < 0 || cfg.RequestTimeout < 0 {
		return nil, fmt.Errorf("timeouts must not be negative")
	}
	return &cfg, nil
}

// Flag is a boolean that also accepts yes/no and on/off.
type Flag bool

func (f *Flag) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "1", "true", "yes", "on":
		*f = true
	case "", "0", "false", "no", "off":
		*f = false
	default:
		return fmt.Errorf("invalid boolean %q", string(text))
	}
	return nil
}

func normalizeEnv(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dev", "develop", "development", "local":
		return "development"
	case "prod", "production":
		return "production"
	case "stage", "staging":
		return "staging"
	case "test", "testing":
		return "test"
	default:
		return strings.ToLower(strings.TrimSpace(value))
	}
}

func (c *Config) IsDevelopment() bool {
	return c != nil && c.AppEnv == "development"
}

func (c *Config) DocsEnabled() bool {
	return c != nil && bool(c.EnableDocs) && c.AppEnv == "development"
}
