package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	originalDSN := os.Getenv("TRAWLER_DATABASE_DSN")
	defer func() {
		if originalDSN != "" {
			os.Setenv("TRAWLER_DATABASE_DSN", originalDSN)
		} else {
			os.Unsetenv("TRAWLER_DATABASE_DSN")
		}
	}()

	os.Setenv("TRAWLER_DATABASE_DSN", "bench:secret@tcp(db:3306)/lobsters")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Database.DSN != "bench:secret@tcp(db:3306)/lobsters" {
		t.Errorf("Expected database DSN from env, got: %s", cfg.Database.DSN)
	}
	if cfg.Workload.Runtime != 30*time.Second {
		t.Errorf("Expected default runtime 30s, got: %v", cfg.Workload.Runtime)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Database: DatabaseConfig{DSN: "lobsters@tcp(localhost:3306)/soup"},
			Workload: WorkloadConfig{
				Issuers:     8,
				Warmup:      10 * time.Second,
				Runtime:     30 * time.Second,
				ReqScale:    1.0,
				MemScale:    1.0,
				AuthedShare: 0.5,
			},
		}
	}

	if err := valid().Validate(); err != nil {
		t.Errorf("Valid config should not error: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad dsn", func(c *Config) { c.Database.DSN = "not a dsn at all ::" }},
		{"zero issuers", func(c *Config) { c.Workload.Issuers = 0 }},
		{"too many issuers", func(c *Config) { c.Workload.Issuers = 100000 }},
		{"negative pool", func(c *Config) { c.Database.PoolSize = -1 }},
		{"zero runtime", func(c *Config) { c.Workload.Runtime = 0 }},
		{"zero memscale", func(c *Config) { c.Workload.MemScale = 0 }},
		{"authed share above one", func(c *Config) { c.Workload.AuthedShare = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("Expected validation error for %s", tt.name)
			}
		})
	}
}

func TestEffectivePoolSize(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{PoolSize: 0},
		Workload: WorkloadConfig{Issuers: 32},
	}
	if got := cfg.EffectivePoolSize(); got != 32 {
		t.Errorf("EffectivePoolSize() = %d, want 32", got)
	}

	cfg.Database.PoolSize = 200
	if got := cfg.EffectivePoolSize(); got != 200 {
		t.Errorf("EffectivePoolSize() = %d, want 200", got)
	}
}
