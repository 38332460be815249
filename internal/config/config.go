// Package config provides configuration loading for wastesort.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned when configuration values fail validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Classifier backends.
const (
	BackendSimulated = "simulated"
	BackendRemote    = "remote"
	BackendAnthropic = "anthropic"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Classifier ClassifierConfig `mapstructure:"classifier"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	Upload     UploadConfig     `mapstructure:"upload"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ClassifierConfig selects and tunes the classification backend.
type ClassifierConfig struct {
	Backend   string          `mapstructure:"backend"`
	Timeout   time.Duration   `mapstructure:"timeout"`
	Latency   time.Duration   `mapstructure:"latency"`
	Seed      uint64          `mapstructure:"seed"`
	TableFile string          `mapstructure:"table_file"`
	Remote    RemoteConfig    `mapstructure:"remote"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// RemoteConfig points at an HTTP inference service.
type RemoteConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
}

// AnthropicConfig configures the vision model backend.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// CatalogConfig optionally replaces the built-in category catalog.
type CatalogConfig struct {
	File string `mapstructure:"file"`
}

// UploadConfig bounds accepted images.
type UploadConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// LoggingConfig configures the logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("classifier.backend", BackendSimulated)
	v.SetDefault("classifier.timeout", 10*time.Second)
	v.SetDefault("classifier.latency", time.Duration(0))
	v.SetDefault("classifier.seed", 0)
	v.SetDefault("classifier.table_file", "")
	v.SetDefault("classifier.remote.endpoint", "")
	v.SetDefault("classifier.remote.api_key", "")
	v.SetDefault("classifier.anthropic.api_key", "")
	v.SetDefault("classifier.anthropic.model", "")
	v.SetDefault("catalog.file", "")
	v.SetDefault("upload.max_bytes", 10*1024*1024)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load decodes v into a Config, expands paths and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Classifier.TableFile = ExpandPath(cfg.Classifier.TableFile)
	cfg.Catalog.File = ExpandPath(cfg.Catalog.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Classifier.Backend {
	case BackendSimulated, BackendAnthropic:
	case BackendRemote:
		if c.Classifier.Remote.Endpoint == "" {
			return fmt.Errorf("%w: classifier.remote.endpoint is required for the remote backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown classifier backend %q", ErrInvalidConfig, c.Classifier.Backend)
	}

	if c.Classifier.Timeout < 0 {
		return fmt.Errorf("%w: classifier.timeout must not be negative", ErrInvalidConfig)
	}
	if c.Classifier.Latency < 0 {
		return fmt.Errorf("%w: classifier.latency must not be negative", ErrInvalidConfig)
	}
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("%w: upload.max_bytes must be positive", ErrInvalidConfig)
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: invalid log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("%w: invalid log format %q", ErrInvalidConfig, c.Logging.Format)
	}

	return nil
}
