package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database  DatabaseConfig
	Workload  WorkloadConfig
	Logging   LoggingConfig
	Telemetry TelemetryConfig
	Ops       OpsConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	// DSN is a go-sql-driver/mysql connection string.
	DSN string
	// PoolSize caps open connections. Zero means "match the issuer
	// count", which is what enforces the in-flight request bound.
	PoolSize int
}

// WorkloadConfig holds load-generation configuration
type WorkloadConfig struct {
	Issuers       int
	Warmup        time.Duration
	Runtime       time.Duration
	ReqScale      float64
	MemScale      float64
	AuthedShare   float64
	Prime         bool
	HistogramPath string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// TelemetryConfig holds observability configuration
type TelemetryConfig struct {
	Enabled           bool
	JaegerURL         string
	PrometheusEnabled bool
	ServiceName       string
}

// OpsConfig holds the side HTTP server configuration
type OpsConfig struct {
	Enabled bool
	Addr    string
}

// Load loads configuration from environment variables and config file
func Load() (*Config, error) {
	setDefaults()

	viper.SetEnvPrefix("TRAWLER")
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.trawler")
	viper.AddConfigPath("/etc/trawler")

	if err := viper.ReadInConfig(); err != nil {
		// Config file not found; this is OK if we have env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Database: DatabaseConfig{
			DSN:      getString("database_dsn", "lobsters@tcp(localhost:3306)/soup"),
			PoolSize: getInt("pool_size", 0),
		},
		Workload: WorkloadConfig{
			Issuers:       getInt("issuers", 1),
			Warmup:        time.Duration(getInt("warmup", 10)) * time.Second,
			Runtime:       time.Duration(getInt("runtime", 30)) * time.Second,
			ReqScale:      getFloat("reqscale", 1.0),
			MemScale:      getFloat("memscale", 1.0),
			AuthedShare:   getFloat("authed_share", 0.5),
			Prime:         getBool("prime", false),
			HistogramPath: getString("histogram", ""),
		},
		Logging: LoggingConfig{
			Level:  getString("log_level", "INFO"),
			Format: getString("log_format", "json"),
		},
		Telemetry: TelemetryConfig{
			Enabled:           getBool("telemetry_enabled", false),
			JaegerURL:         getString("jaeger_url", ""),
			PrometheusEnabled: getBool("prometheus_enabled", true),
			ServiceName:       getString("service_name", "trawler"),
		},
		Ops: OpsConfig{
			Enabled: getBool("ops_enabled", false),
			Addr:    getString("ops_addr", ":9090"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("database_dsn", "lobsters@tcp(localhost:3306)/soup")
	viper.SetDefault("issuers", 1)
	viper.SetDefault("warmup", 10)
	viper.SetDefault("runtime", 30)
	viper.SetDefault("reqscale", 1.0)
	viper.SetDefault("memscale", 1.0)
	viper.SetDefault("authed_share", 0.5)
	viper.SetDefault("log_level", "INFO")
	viper.SetDefault("log_format", "json")
	viper.SetDefault("telemetry_enabled", false)
	viper.SetDefault("prometheus_enabled", true)
	viper.SetDefault("service_name", "trawler")
	viper.SetDefault("ops_enabled", false)
	viper.SetDefault("ops_addr", ":9090")
}

func getString(key, defaultValue string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if val := os.Getenv("TRAWLER_" + toEnvKey(key)); val != "" {
		return val
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if val := os.Getenv("TRAWLER_" + toEnvKey(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultValue
}

func getFloat(key string, defaultValue float64) float64 {
	if viper.IsSet(key) {
		return viper.GetFloat64(key)
	}
	if val := os.Getenv("TRAWLER_" + toEnvKey(key)); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getBool(key string, defaultValue bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if val := os.Getenv("TRAWLER_" + toEnvKey(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultValue
}

func toEnvKey(key string) string {
	// Convert snake_case to UPPER_SNAKE_CASE
	result := ""
	for _, r := range key {
		if r >= 'a' && r <= 'z' {
			result += string(r - 'a' + 'A')
		} else if r == '-' {
			result += "_"
		} else {
			result += string(r)
		}
	}
	return result
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("database_dsn is required")
	}
	if _, err := mysql.ParseDSN(c.Database.DSN); err != nil {
		return fmt.Errorf("database_dsn is not a valid mysql DSN: %w", err)
	}
	if c.Workload.Issuers <= 0 || c.Workload.Issuers > 4096 {
		return fmt.Errorf("issuers must be between 1 and 4096")
	}
	if c.Database.PoolSize < 0 {
		return fmt.Errorf("pool_size must not be negative")
	}
	if c.Workload.Warmup < 0 || c.Workload.Runtime <= 0 {
		return fmt.Errorf("warmup must be >= 0 and runtime > 0")
	}
	if c.Workload.ReqScale <= 0 || c.Workload.MemScale <= 0 {
		return fmt.Errorf("reqscale and memscale must be positive")
	}
	if c.Workload.AuthedShare < 0 || c.Workload.AuthedShare > 1 {
		return fmt.Errorf("authed_share must be between 0 and 1")
	}
	return nil
}

// EffectivePoolSize returns the connection pool capacity: the explicit
// pool_size when set, otherwise one connection per issuer.
func (c *Config) EffectivePoolSize() int {
	if c.Database.PoolSize > 0 {
		return c.Database.PoolSize
	}
	return c.Workload.Issuers
}
