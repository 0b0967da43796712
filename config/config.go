package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Storage drivers understood by the key-value store factory.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config represents the overall application configuration.
type Config struct {
	Env     string        `yaml:"env"`
	Server  ServerConfig  `yaml:"server"`
	Listing ListingConfig `yaml:"listing"`
	Storage StorageConfig `yaml:"storage"`
	Views   ViewsConfig   `yaml:"views"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
}

// ListingConfig describes the remote listing service queried by the teacher list.
type ListingConfig struct {
	BaseURL         string            `yaml:"base_url"`
	HTTPProxy       string            `yaml:"http_proxy"`
	Headers         map[string]string `yaml:"headers"`
	TimeoutSeconds  int               `yaml:"timeout_seconds"`
	Timeout         time.Duration     `yaml:"-"`
	RateLimitPerSec float64           `yaml:"rate_limit_per_sec"`
}

// StorageConfig selects and configures the device-local key-value store.
type StorageConfig struct {
	Driver                 string `yaml:"driver"`
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	RedisAddr              string `yaml:"redis_addr"`
	RedisPassword          string `yaml:"redis_password"`
	RedisDB                int    `yaml:"redis_db"`
	KeyPrefix              string `yaml:"key_prefix"`
}

// ViewsConfig tunes the screen view models.
type ViewsConfig struct {
	ErrorClearAfterMillis int           `yaml:"error_clear_after_ms"`
	ErrorClearAfter       time.Duration `yaml:"-"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads the configuration from the given path. A missing file is not an
// error: defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	var cfg Config
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration with every default filled in.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Env == "" {
		cfg.Env = EnvDevelopment
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3333
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}

	if cfg.Listing.BaseURL == "" {
		cfg.Listing.BaseURL = "http://localhost:3333"
	}
	if cfg.Listing.TimeoutSeconds <= 0 {
		cfg.Listing.TimeoutSeconds = 30
	}
	cfg.Listing.Timeout = time.Duration(cfg.Listing.TimeoutSeconds) * time.Second
	if cfg.Listing.RateLimitPerSec <= 0 {
		cfg.Listing.RateLimitPerSec = 5
	}

	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.Driver == DriverSQLite && cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "proffy.db"
	}
	if cfg.Storage.MaxOpenConns <= 0 {
		cfg.Storage.MaxOpenConns = 4
	}
	if cfg.Storage.MaxIdleConns <= 0 {
		cfg.Storage.MaxIdleConns = 2
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "proffy:"
	}

	if cfg.Views.ErrorClearAfterMillis <= 0 {
		cfg.Views.ErrorClearAfterMillis = 3000
	}
	cfg.Views.ErrorClearAfter = time.Duration(cfg.Views.ErrorClearAfterMillis) * time.Millisecond

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		if cfg.Env == EnvProduction {
			cfg.Log.Format = "json"
		} else {
			cfg.Log.Format = "console"
		}
	}
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PROFFY_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("PROFFY_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PROFFY_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("PROFFY_LISTING_URL"); v != "" {
		cfg.Listing.BaseURL = v
	}
	if v := os.Getenv("PROFFY_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("PROFFY_STORAGE_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("PROFFY_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := os.Getenv("PROFFY_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Validate reports configuration values that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return errors.New("storage.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown storage.driver %q", c.Storage.Driver)
	}
	return nil
}
