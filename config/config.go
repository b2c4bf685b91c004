// Package config loads client settings from a YAML file, a .env file and the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "workpro.yaml"

// Token store kinds.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config is the root client configuration.
// Sources by decreasing priority: explicit path, CONFIG_PATH, ./workpro.yaml, environment.
// Environment variables always overlay file values; a .env file in the working
// directory is loaded into the environment first.
type Config struct {
	Env     string        `yaml:"env" env:"APP_ENV" env-default:"production"`
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Store   StoreConfig   `yaml:"store"`
	Redis   RedisConfig   `yaml:"redis"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url" env:"APP_API_BASE_URL" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env:"APP_API_TIMEOUT" env-default:"30s"`
}

// AuthConfig holds the OAuth2 client used for password and refresh grants.
// OAuth2ConfigURL points to a secured oauth2.Config ("<url>|<key>") and takes
// precedence over ClientID and ClientSecret.
type AuthConfig struct {
	ClientID        string `yaml:"client_id" env:"APP_CLIENT_ID"`
	ClientSecret    string `yaml:"client_secret" env:"APP_CLIENT_SECRET"`
	Scope           string `yaml:"scope" env:"APP_CLIENT_SCOPE"`
	TokenPath       string `yaml:"token_path" env:"APP_TOKEN_PATH" env-default:"/oauth/token"`
	OAuth2ConfigURL string `yaml:"oauth2_config_url" env:"APP_OAUTH2_CONFIG_URL"`
}

type StoreConfig struct {
	Kind string `yaml:"kind" env:"APP_TOKEN_STORE" env-default:"memory"`
	URL  string `yaml:"url" env:"APP_TOKEN_STORE_URL"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"APP_REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"APP_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"APP_REDIS_DB" env-default:"0"`
	Prefix   string `yaml:"prefix" env:"APP_REDIS_PREFIX" env-default:"workpro:"`
}

type LoggingConfig struct {
	Level string `yaml:"level" env:"APP_LOG_LEVEL" env-default:"info"`
}

type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"APP_METRICS_ENABLED" env-default:"false"`
	Namespace string `yaml:"namespace" env:"APP_METRICS_NAMESPACE" env-default:"workpro"`
}

// MustLoad wraps Load and panics on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads the configuration by priority and validates it.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	readFile := func(p string) error {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("config file %q stat failed: %w", p, err)
		}
		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return fmt.Errorf("failed to read config %q: %w", p, err)
		}
		return nil
	}

	switch {
	case path != "":
		if err := readFile(path); err != nil {
			return nil, err
		}
	case os.Getenv("CONFIG_PATH") != "":
		if err := readFile(os.Getenv("CONFIG_PATH")); err != nil {
			return nil, err
		}
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			if err := readFile(DefaultFile); err != nil {
				return nil, err
			}
		} else if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, %s or env vars: %w", DefaultFile, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross field constraints cleanenv cannot express.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: api.base_url %q is not an absolute URL", ErrInvalidConfig, c.API.BaseURL)
	}
	switch c.Store.Kind {
	case StoreMemory, StoreRedis:
	case StoreFile:
		if c.Store.URL == "" {
			return fmt.Errorf("%w: store.url is required for the file store", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown store kind %q", ErrInvalidConfig, c.Store.Kind)
	}
	return nil
}
