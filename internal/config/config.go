package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const Production = "production"

// DatabaseOptions holds the PostgreSQL connection settings.
type DatabaseOptions struct {
	Name     string `env:"DB_NAME" envDefault:"hrm"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// DSN renders the options as a libpq keyword/value connection string.
func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Name, d.Password, d.SSLMode,
	)
}

// Config holds the configuration values for the application.
type Config struct {
	Database DatabaseOptions

	ListenPort       int           `env:"PORT" envDefault:"8080"`
	GoAppEnvironment string        `env:"GO_APP_ENV" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	JWTSecret        string        `env:"JWT_SECRET" envDefault:"change-me"`
	SessionDuration  time.Duration `env:"SESSION_DURATION" envDefault:"12h"`
	SessionCookie    string        `env:"SESSION_COOKIE" envDefault:"hrm_session"`
	RedisURL         string        `env:"REDIS_URL"`
	LoginRateLimit   string        `env:"LOGIN_RATE_LIMIT" envDefault:"10-M"`
	CORSOrigins      []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	PageSize         int           `env:"PAGE_SIZE" envDefault:"15"`
	MaxPageSize      int           `env:"MAX_PAGE_SIZE" envDefault:"100"`
	MetricsPath      string        `env:"METRICS_PATH" envDefault:"/metrics"`
	AssetVersion     string        `env:"ASSET_VERSION" envDefault:"1"`
	AdminEmail       string        `env:"ADMIN_EMAIL" envDefault:"admin@example.com"`
	AdminPassword    string        `env:"ADMIN_PASSWORD" envDefault:"password"`
}

// LoadConfig reads .env files when present and then the process environment.
func LoadConfig(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env", ".env.local"}
	}
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return nil, fmt.Errorf("load env files: %w", err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.MaxPageSize < c.PageSize {
		return fmt.Errorf("MAX_PAGE_SIZE (%d) must not be lower than PAGE_SIZE (%d)", c.MaxPageSize, c.PageSize)
	}
	if c.IsProduction() && c.JWTSecret == "change-me" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.SessionDuration <= 0 {
		return fmt.Errorf("SESSION_DURATION must be positive")
	}
	return nil
}

// IsProduction reports whether GO_APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.GoAppEnvironment == Production
}

// Address is the listen address for the HTTP server.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.ListenPort)
}

// LogrusLevel maps LOG_LEVEL onto a logrus level, defaulting to info.
func (c *Config) LogrusLevel() logrus.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// NewLogger builds the application logger.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetLevel(c.LogrusLevel())
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
