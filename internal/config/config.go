package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// minAdminSecretLen is the shortest HMAC key accepted for admin tokens.
const minAdminSecretLen = 16

type Config struct {
	Addr               string        `yaml:"addr" env:"BILLING_ADDR" envDefault:":1337"`
	APITimeout         time.Duration `yaml:"timeout" env:"BILLING_TIMEOUT" envDefault:"15s"`
	DatabasePath       string        `yaml:"database_path" env:"BILLING_DATABASE_PATH" envDefault:"database.sqlite3"`
	MigrateOnStart     bool          `yaml:"migrate_on_start" env:"BILLING_MIGRATE_ON_START" envDefault:"true"`
	SeedOnStart        bool          `yaml:"seed_on_start" env:"BILLING_SEED_ON_START" envDefault:"false"`
	AdminJWTSecret     string        `yaml:"admin_jwt_secret" env:"BILLING_ADMIN_JWT_SECRET"`
	LogLevel           string        `yaml:"log_level" env:"BILLING_LOG_LEVEL" envDefault:"info"`
	LogFormat          string        `yaml:"log_format" env:"BILLING_LOG_FORMAT" envDefault:"json"`
	CORSAllowedOrigins []string      `yaml:"cors_allowed_origins" env:"BILLING_CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout" env:"BILLING_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// LoadConfig builds the configuration from defaults, the environment (a
// .env file in the working directory is loaded first when present) and,
// when path is not empty, the YAML file at path.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate checks the configuration for missing or unsafe values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("addr must be set")
	}
	if strings.TrimSpace(c.DatabasePath) == "" {
		return fmt.Errorf("database_path must be set")
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.APITimeout)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %s", c.ShutdownTimeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log_format %q", c.LogFormat)
	}
	// empty secret disables admin authentication
	if c.AdminJWTSecret != "" && len(c.AdminJWTSecret) < minAdminSecretLen {
		return fmt.Errorf("admin_jwt_secret must be at least %d bytes", minAdminSecretLen)
	}

	return nil
}

// AdminAuthEnabled reports whether admin routes require a bearer token.
func (c *Config) AdminAuthEnabled() bool {
	return c.AdminJWTSecret != ""
}

// Logger builds the structured logger described by LogLevel and LogFormat.
// Invalid values fall back to info level and JSON output.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.LogFormat, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("unknown log_level %q", s)
	}
	return level, nil
}
