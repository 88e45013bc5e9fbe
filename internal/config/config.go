// ABOUTME: Configuration loader for the forum client
// ABOUTME: Merges defaults, an optional YAML file, .env, and environment overrides

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Token store kinds.
const (
	StoreFile   = "file"
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

const defaultAPIURL = "http://localhost:8080"

var urlPattern = regexp.MustCompile(`^https?://`)

// Config is the full client configuration.
type Config struct {
	API  APIConfig  `yaml:"api"`
	Auth AuthConfig `yaml:"auth"`
	Log  LogConfig  `yaml:"log"`

	// Dir holds the token file, recent searches and the TUI debug log.
	Dir string `yaml:"-"`
}

// APIConfig describes how to reach the forum backend.
type APIConfig struct {
	URL               string        `yaml:"url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"` // 0 disables client-side limiting
	Burst             int           `yaml:"burst"`
}

// AuthConfig selects where the bearer token is persisted.
type AuthConfig struct {
	Store         string `yaml:"store"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
}

// LogConfig mirrors LOG_LEVEL / LOG_FORMAT.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			URL:     defaultAPIURL,
			Timeout: 30 * time.Second,
			Burst:   1,
		},
		Auth: AuthConfig{
			Store: StoreFile,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Dir: DefaultDir(),
	}
}

// DefaultDir returns the config directory: FORUM_CONFIG_DIR, then XDG_CONFIG_HOME or ~/.config.
func DefaultDir() string {
	if dir := os.Getenv("FORUM_CONFIG_DIR"); dir != "" {
		return dir
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "forum")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "forum")
}

// Load builds the configuration. path may be empty, in which case
// <Dir>/config.yaml is used when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	explicit := path != ""
	if !explicit && cfg.Dir != "" {
		path = filepath.Join(cfg.Dir, "config.yaml")
	}
	if path != "" {
		if err := cfg.loadFile(path, explicit); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFile(path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.API.URL = ensureScheme(getEnv("FORUM_API_URL", c.API.URL))
	c.API.RequestsPerSecond = getEnvFloat("FORUM_REQUESTS_PER_SECOND", c.API.RequestsPerSecond)
	c.Auth.Store = getEnv("FORUM_TOKEN_STORE", c.Auth.Store)
	c.Auth.RedisAddr = getEnv("FORUM_REDIS_ADDR", c.Auth.RedisAddr)
	c.Auth.RedisPassword = getEnv("FORUM_REDIS_PASSWORD", c.Auth.RedisPassword)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.API.Validate(); err != nil {
		return err
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}

// Validate validates the API configuration.
func (c *APIConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required, validation.Match(urlPattern).Error("must start with http:// or https://")),
		validation.Field(&c.Timeout, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RequestsPerSecond, validation.Min(0.0)),
		validation.Field(&c.Burst, validation.Min(1)),
	)
}

// Validate validates the token store configuration.
func (c *AuthConfig) Validate() error {
	if c.Store == "" {
		c.Store = StoreFile
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Store, validation.Required, validation.In(StoreFile, StoreRedis, StoreMemory)),
		validation.Field(&c.RedisAddr, validation.When(c.Store == StoreRedis, validation.Required)),
	)
}

// Validate validates the log configuration.
func (c *LogConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&c.Format, validation.In("text", "json")),
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// ensureScheme adds http:// if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		url = "http://" + url
	}
	return strings.TrimRight(url, "/")
}
