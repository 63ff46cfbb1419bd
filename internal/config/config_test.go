package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/garnizeh/billing/internal/config"
)

func validConfig() *config.Config {
	return &config.Config{
		Addr:               ":1337",
		APITimeout:         5 * time.Second,
		DatabasePath:       "billing.db",
		LogLevel:           "info",
		LogFormat:          "json",
		CORSAllowedOrigins: []string{"*"},
		ShutdownTimeout:    time.Second,
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Addr != ":1337" || cfg.APITimeout != 15*time.Second || cfg.DatabasePath != "database.sqlite3" {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if !cfg.MigrateOnStart || cfg.SeedOnStart {
		t.Fatalf("unexpected migrate/seed defaults: %#v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors default: %#v", cfg.CORSAllowedOrigins)
	}
	if cfg.ShutdownTimeout != 30*time.Second || cfg.AdminAuthEnabled() {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BILLING_ADDR", ":9090")
	t.Setenv("BILLING_TIMEOUT", "3s")
	t.Setenv("BILLING_SEED_ON_START", "true")
	t.Setenv("BILLING_CORS_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Addr != ":9090" || cfg.APITimeout != 3*time.Second || !cfg.SeedOnStart {
		t.Fatalf("env not applied: %#v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected cors origins: %#v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadConfig_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BILLING_DATABASE_PATH", "")
	os.Unsetenv("BILLING_DATABASE_PATH")

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BILLING_DATABASE_PATH=from-dotenv.db\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.DatabasePath != "from-dotenv.db" {
		t.Fatalf("expected .env value, got %q", cfg.DatabasePath)
	}
}

func TestLoadConfig_YAMLOverridesEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("BILLING_ADDR", ":9090")

	path := filepath.Join(dir, "config.yaml")
	content := "addr: \":7070\"\ntimeout: 2s\nlog_format: text\ncors_allowed_origins:\n  - http://c.test\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.APITimeout != 2*time.Second || cfg.LogFormat != "text" {
		t.Fatalf("yaml not applied: %#v", cfg)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://c.test" {
		t.Fatalf("unexpected cors origins: %#v", cfg.CORSAllowedOrigins)
	}
	// untouched keys keep their defaults
	if cfg.DatabasePath != "database.sqlite3" {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	if _, err := config.LoadConfig("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *config.Config)
		wantErr bool
	}{
		{"valid", func(c *config.Config) {}, false},
		{"empty addr", func(c *config.Config) { c.Addr = " " }, true},
		{"empty database path", func(c *config.Config) { c.DatabasePath = "" }, true},
		{"zero timeout", func(c *config.Config) { c.APITimeout = 0 }, true},
		{"zero shutdown timeout", func(c *config.Config) { c.ShutdownTimeout = 0 }, true},
		{"unknown log level", func(c *config.Config) { c.LogLevel = "loud" }, true},
		{"unknown log format", func(c *config.Config) { c.LogFormat = "xml" }, true},
		{"short admin secret", func(c *config.Config) { c.AdminJWTSecret = "short" }, true},
		{"long admin secret", func(c *config.Config) { c.AdminJWTSecret = "0123456789abcdef" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected Validate to fail")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected Validate to succeed, got: %v", err)
			}
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer

	cfg := validConfig()
	cfg.LogLevel = "warn"
	logger := cfg.Logger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Fatalf("unexpected json output: %q", out)
	}

	buf.Reset()
	cfg.LogFormat = "text"
	cfg.Logger(&buf).Warn("plain")
	if !strings.Contains(buf.String(), "msg=plain") {
		t.Fatalf("unexpected text output: %q", buf.String())
	}
}
