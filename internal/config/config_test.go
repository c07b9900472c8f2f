package config

import (
	"errors"
	"testing"
)

var configKeys = []string{
	"APP_ENV", "EVIDENTLY_LOCAL_ADDR", "EVIDENTLY_LOCAL_PORT", "METRICS_ADDR",
	"STORE_TYPE", "DATA_DIR", "DB_DSN", "RATE_LIMIT_PER_IP", "LOG_LEVEL", "ROLLOUT_SALT",
}

// clearEnv blanks every key; viper treats empty variables as unset.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
	}
}

func TestLoad_DefaultValues(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.AppEnv != "dev" {
		t.Errorf("Expected AppEnv='dev', got '%s'", cfg.AppEnv)
	}
	if cfg.HTTPAddr != ":2306" {
		t.Errorf("Expected HTTPAddr=':2306', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":9090" {
		t.Errorf("Expected MetricsAddr=':9090', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "file" {
		t.Errorf("Expected StoreType='file', got '%s'", cfg.StoreType)
	}
	if cfg.DataDir != "./data" {
		t.Errorf("Expected DataDir='./data', got '%s'", cfg.DataDir)
	}
	if cfg.RateLimitPerIP != 100 {
		t.Errorf("Expected RateLimitPerIP=100, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Expected LogLevel='info', got '%s'", cfg.LogLevel)
	}
	if cfg.RolloutSalt == "" || !cfg.RolloutSaltGenerated() {
		t.Error("Expected a generated rollout salt")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected defaults to validate, got %v", err)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVIDENTLY_LOCAL_ADDR", "127.0.0.1:9999")
	t.Setenv("METRICS_ADDR", ":7777")
	t.Setenv("STORE_TYPE", "memory")
	t.Setenv("DATA_DIR", "/srv/features")
	t.Setenv("RATE_LIMIT_PER_IP", "200")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ROLLOUT_SALT", "fixed")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTPAddr != "127.0.0.1:9999" {
		t.Errorf("Expected HTTPAddr='127.0.0.1:9999', got '%s'", cfg.HTTPAddr)
	}
	if cfg.MetricsAddr != ":7777" {
		t.Errorf("Expected MetricsAddr=':7777', got '%s'", cfg.MetricsAddr)
	}
	if cfg.StoreType != "memory" {
		t.Errorf("Expected StoreType='memory', got '%s'", cfg.StoreType)
	}
	if cfg.DataDir != "/srv/features" {
		t.Errorf("Expected DataDir='/srv/features', got '%s'", cfg.DataDir)
	}
	if cfg.RateLimitPerIP != 200 {
		t.Errorf("Expected RateLimitPerIP=200, got %d", cfg.RateLimitPerIP)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected LogLevel='debug', got '%s'", cfg.LogLevel)
	}
	if cfg.RolloutSalt != "fixed" || cfg.RolloutSaltGenerated() {
		t.Errorf("Expected configured salt 'fixed', got '%s' (generated=%v)", cfg.RolloutSalt, cfg.RolloutSaltGenerated())
	}
}

func TestLoad_PortFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("EVIDENTLY_LOCAL_PORT", "4000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.HTTPAddr != ":4000" {
		t.Errorf("Expected HTTPAddr=':4000', got '%s'", cfg.HTTPAddr)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			AppEnv: "dev", HTTPAddr: ":2306", MetricsAddr: ":9090",
			StoreType: "file", DataDir: "./data", RateLimitPerIP: 100, RolloutSalt: "s",
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{"valid", func(c *Config) {}, ""},
		{"memory without data dir", func(c *Config) { c.StoreType = "memory"; c.DataDir = "" }, ""},
		{"unknown store", func(c *Config) { c.StoreType = "redis" }, "STORE_TYPE"},
		{"file without data dir", func(c *Config) { c.DataDir = "" }, "DATA_DIR"},
		{"postgres without dsn", func(c *Config) { c.StoreType = "postgres" }, "DB_DSN"},
		{"empty http addr", func(c *Config) { c.HTTPAddr = "" }, "EVIDENTLY_LOCAL_ADDR"},
		{"empty metrics addr", func(c *Config) { c.MetricsAddr = "" }, "METRICS_ADDR"},
		{"negative rate limit", func(c *Config) { c.RateLimitPerIP = -1 }, "RATE_LIMIT_PER_IP"},
		{"generated salt in prod", func(c *Config) { c.AppEnv = "prod"; c.rolloutSaltGenerated = true }, "ROLLOUT_SALT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()

			if tt.field == "" {
				if err != nil {
					t.Fatalf("Expected valid config, got %v", err)
				}
				return
			}
			var ve ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tt.field {
				t.Errorf("Expected field '%s', got '%s'", tt.field, ve.Field)
			}
		})
	}
}
