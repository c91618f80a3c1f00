// Package config loads explorer settings from a YAML file and EXPLORER_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Service modes.
const (
	ModeMock = "mock"
	ModeHTTP = "http"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
	StoreFile   = "file"
)

// Config is the complete explorer configuration.
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Mock    MockConfig    `yaml:"mock"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServiceConfig selects the topic service used by clients.
type ServiceConfig struct {
	Mode           string        `yaml:"mode"`
	URL            string        `yaml:"url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// MockConfig tunes the in-process mock topic service.
type MockConfig struct {
	Delay      time.Duration `yaml:"delay"`
	FailStart  bool          `yaml:"fail_start"`
	FailSelect bool          `yaml:"fail_select"`
}

// ServerConfig configures `explorer serve`.
type ServerConfig struct {
	Port    int         `yaml:"port"`
	Store   string      `yaml:"store"`
	DataDir string      `yaml:"data_dir"`
	Redis   RedisConfig `yaml:"redis"`
	Catalog string      `yaml:"catalog"`
	Watch   bool        `yaml:"watch"`
}

// RedisConfig holds the connection settings of the redis store.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	Prefix   string        `yaml:"prefix"`
	TTL      time.Duration `yaml:"ttl"`
}

// LogConfig configures the slog logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig configures the standalone Prometheus listener used outside serve mode.
type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{Mode: ModeMock},
		Mock:    MockConfig{Delay: 500 * time.Millisecond},
		Server: ServerConfig{
			Port:  8080,
			Store: StoreMemory,
			Redis: RedisConfig{Addr: "localhost:6379"},
		},
		Log: LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads path (if not empty) over the defaults, then applies environment overrides.
func Load(path string) (*Config, error) {
	return LoadWithEnv(path, os.LookupEnv)
}

// LoadWithEnv is Load with an injectable environment lookup.
func LoadWithEnv(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	var errs []error

	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	boolean := func(key string, dst *bool) {
		if v, ok := lookup(key); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = b
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v, ok := lookup(key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("EXPLORER_SERVICE_MODE", &c.Service.Mode)
	str("EXPLORER_SERVICE_URL", &c.Service.URL)
	duration("EXPLORER_REQUEST_TIMEOUT", &c.Service.RequestTimeout)

	duration("EXPLORER_MOCK_DELAY", &c.Mock.Delay)
	boolean("EXPLORER_MOCK_FAIL_START", &c.Mock.FailStart)
	boolean("EXPLORER_MOCK_FAIL_SELECT", &c.Mock.FailSelect)

	integer("EXPLORER_PORT", &c.Server.Port)
	str("EXPLORER_STORE", &c.Server.Store)
	str("EXPLORER_DATA_DIR", &c.Server.DataDir)
	str("EXPLORER_CATALOG", &c.Server.Catalog)
	boolean("EXPLORER_WATCH", &c.Server.Watch)
	str("EXPLORER_REDIS_ADDR", &c.Server.Redis.Addr)
	str("EXPLORER_REDIS_PASSWORD", &c.Server.Redis.Password)
	integer("EXPLORER_REDIS_DB", &c.Server.Redis.DB)
	str("EXPLORER_REDIS_PREFIX", &c.Server.Redis.Prefix)
	duration("EXPLORER_REDIS_TTL", &c.Server.Redis.TTL)

	str("EXPLORER_LOG_LEVEL", &c.Log.Level)
	str("EXPLORER_LOG_FORMAT", &c.Log.Format)
	str("EXPLORER_METRICS_ADDR", &c.Metrics.Addr)

	return errors.Join(errs...)
}

// Validate checks enumerations and required fields.
func (c *Config) Validate() error {
	var errs []error

	switch c.Service.Mode {
	case ModeMock:
	case ModeHTTP:
		if c.Service.URL == "" {
			errs = append(errs, errors.New("service.url is required in http mode"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown service.mode %q (want %s or %s)", c.Service.Mode, ModeMock, ModeHTTP))
	}

	switch c.Server.Store {
	case StoreMemory, StoreRedis, StoreFile:
	default:
		errs = append(errs, fmt.Errorf("unknown server.store %q (want %s, %s or %s)", c.Server.Store, StoreMemory, StoreRedis, StoreFile))
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d out of range", c.Server.Port))
	}
	if c.Service.RequestTimeout < 0 {
		errs = append(errs, errors.New("service.request_timeout must not be negative"))
	}
	if c.Mock.Delay < 0 {
		errs = append(errs, errors.New("mock.delay must not be negative"))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log.format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
