// Package config provides configuration management.
package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	apperrors "toll-tracker/internal/errors"
	"toll-tracker/internal/logging"
)

// EnvPrefix is the prefix of environment variable overrides (TOLL_HOLIDAY_API_BASE_URL, ...)
const EnvPrefix = "TOLL"

// Holiday sources
const (
	SourceAPI      = "api"
	SourceCalendar = "calendar"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" mapstructure:"version"`

	// HolidayAPI configures the public holiday registry
	HolidayAPI HolidayAPIConfig `json:"holiday_api" mapstructure:"holiday_api"`

	// Holiday selects and decorates the holiday source
	Holiday HolidayConfig `json:"holiday" mapstructure:"holiday"`

	// Data locates the price table and crossing data
	Data DataConfig `json:"data" mapstructure:"data"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Server contains HTTP API configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// HolidayAPIConfig contains holiday registry settings
type HolidayAPIConfig struct {
	// BaseURL is the registry root; requests go to {BaseURL}/{YYYY/MM/DD}
	BaseURL string `json:"base_url" mapstructure:"base_url"`

	// TimeoutSeconds bounds a single lookup
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds"`
}

// Timeout returns the lookup timeout as a duration
func (c HolidayAPIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// HolidayConfig contains holiday source settings
type HolidayConfig struct {
	// Source is "api" (remote registry) or "calendar" (offline Swedish calendar)
	Source string `json:"source" mapstructure:"source"`

	// Cache configures the optional redis lookup cache
	Cache CacheConfig `json:"cache" mapstructure:"cache"`
}

// CacheConfig contains cache-related settings
type CacheConfig struct {
	// Enabled enables caching
	Enabled bool `json:"enabled" mapstructure:"enabled"`

	// RedisAddr is the redis host:port
	RedisAddr string `json:"redis_addr" mapstructure:"redis_addr"`

	// TTLSeconds is how long a lookup stays cached
	TTLSeconds int `json:"ttl_seconds" mapstructure:"ttl_seconds"`

	// KeyPrefix namespaces the cache keys
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix"`
}

// TTL returns the cache TTL as a duration
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// DataConfig locates the dataset
type DataConfig struct {
	// Path is the HCL file with price intervals and passages
	Path string `json:"path" mapstructure:"path"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format"`

	// ShowDetails shows the per-window breakdown
	ShowDetails bool `json:"show_details" mapstructure:"show_details"`
}

// ServerConfig contains HTTP API settings
type ServerConfig struct {
	Address             string `json:"address" mapstructure:"address"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds" mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds" mapstructure:"write_timeout_seconds"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		HolidayAPI: HolidayAPIConfig{
			BaseURL:        "https://sholiday.faboul.se/dagar/v2.1",
			TimeoutSeconds: 10,
		},
		Holiday: HolidayConfig{
			Source: SourceAPI,
			Cache: CacheConfig{
				Enabled:    false,
				RedisAddr:  "localhost:6379",
				TTLSeconds: 86400, // 24 hours
				KeyPrefix:  "toll:holiday:",
			},
		},
		Data: DataConfig{
			Path: "tolls.hcl",
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowDetails:   false,
		},
		Server: ServerConfig{
			Address:             ":8080",
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 30,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load loads configuration from a JSON file and TOLL_* environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	v := newViper(Default())

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("json")
			if err := v.ReadInConfig(); err != nil {
				return nil, apperrors.Wrapf(apperrors.TypeConfig, err, "failed to read config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, apperrors.Wrapf(apperrors.TypeConfig, err, "failed to stat config %s", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, apperrors.Wrap(apperrors.TypeConfig, "failed to decode config", err)
	}

	return cfg, nil
}

func newViper(def *Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Every key needs a default for AutomaticEnv to see it during Unmarshal.
	v.SetDefault("version", def.Version)
	v.SetDefault("holiday_api.base_url", def.HolidayAPI.BaseURL)
	v.SetDefault("holiday_api.timeout_seconds", def.HolidayAPI.TimeoutSeconds)
	v.SetDefault("holiday.source", def.Holiday.Source)
	v.SetDefault("holiday.cache.enabled", def.Holiday.Cache.Enabled)
	v.SetDefault("holiday.cache.redis_addr", def.Holiday.Cache.RedisAddr)
	v.SetDefault("holiday.cache.ttl_seconds", def.Holiday.Cache.TTLSeconds)
	v.SetDefault("holiday.cache.key_prefix", def.Holiday.Cache.KeyPrefix)
	v.SetDefault("data.path", def.Data.Path)
	v.SetDefault("output.default_format", def.Output.DefaultFormat)
	v.SetDefault("output.show_details", def.Output.ShowDetails)
	v.SetDefault("server.address", def.Server.Address)
	v.SetDefault("server.read_timeout_seconds", def.Server.ReadTimeoutSeconds)
	v.SetDefault("server.write_timeout_seconds", def.Server.WriteTimeoutSeconds)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	v.SetDefault("logging.output", def.Logging.Output)
	v.SetDefault("logging.development", def.Logging.Development)

	return v
}

// Validate checks the settings the engine cannot run without
func (c *Config) Validate() error {
	u, err := url.Parse(c.HolidayAPI.BaseURL)
	if c.Holiday.Source == SourceAPI && (err != nil || u.Scheme == "" || u.Host == "") {
		return apperrors.Config("holiday_api.base_url must be an absolute URL").
			WithContext("base_url", c.HolidayAPI.BaseURL)
	}
	if c.HolidayAPI.TimeoutSeconds <= 0 {
		return apperrors.Config("holiday_api.timeout_seconds must be positive")
	}

	switch c.Holiday.Source {
	case SourceAPI, SourceCalendar:
	default:
		return apperrors.Config("holiday.source must be api or calendar").
			WithContext("source", c.Holiday.Source)
	}

	if c.Holiday.Cache.Enabled {
		if c.Holiday.Cache.RedisAddr == "" {
			return apperrors.Config("holiday.cache.redis_addr is required when caching is enabled")
		}
		if c.Holiday.Cache.TTLSeconds <= 0 {
			return apperrors.Config("holiday.cache.ttl_seconds must be positive")
		}
	}

	switch c.Output.DefaultFormat {
	case "cli", "json":
	default:
		return apperrors.Config("output.default_format must be cli or json").
			WithContext("format", c.Output.DefaultFormat)
	}

	return nil
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
