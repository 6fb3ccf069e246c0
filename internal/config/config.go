// Package config loads application configuration from defaults, an optional
// YAML file and GOVSTATUS_* environment variables, in that order of precedence.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
// Nested keys are separated by a double underscore, e.g. GOVSTATUS_SERVER__PORT.
const EnvPrefix = "GOVSTATUS_"

// Config is the application configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Log        LogConfig        `koanf:"log"`
	CORS       CORSConfig       `koanf:"cors"`
	Catalog    CatalogConfig    `koanf:"catalog"`
	Timeline   TimelineConfig   `koanf:"timeline"`
	Monitoring MonitoringConfig `koanf:"monitoring"`
}

// ServerConfig configures the API and metrics listeners.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port" validate:"required"`
	MetricsPort       string        `koanf:"metrics_port" validate:"required"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=text json"`
}

// CORSConfig lists origins allowed to read the API from a browser.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// CatalogConfig points at replacement data tables.
// Empty paths use the tables embedded in the binary.
type CatalogConfig struct {
	IncidentsPath string `koanf:"incidents_path"`
	ServicesPath  string `koanf:"services_path"`
}

// TimelineConfig configures the default observation window.
type TimelineConfig struct {
	Start string `koanf:"start" validate:"required,datetime=2006-01-02"`
}

// StartDate returns Start as a UTC calendar date.
func (c TimelineConfig) StartDate() time.Time {
	t, _ := time.Parse("2006-01-02", c.Start)
	return t
}

// MonitoringConfig configures the service status poller.
type MonitoringConfig struct {
	Enabled           bool          `koanf:"enabled"`
	Checker           string        `koanf:"checker" validate:"oneof=static http"`
	Interval          time.Duration `koanf:"interval" validate:"gt=0"`
	Timeout           time.Duration `koanf:"timeout" validate:"gt=0"`
	RetryAttempts     int           `koanf:"retry_attempts" validate:"min=1"`
	InitialBackoff    time.Duration `koanf:"initial_backoff"`
	MaxBackoff        time.Duration `koanf:"max_backoff"`
	BackoffMultiplier float64       `koanf:"backoff_multiplier" validate:"gte=1"`
	RateLimit         float64       `koanf:"rate_limit" validate:"gte=0"`
	UserAgent         string        `koanf:"user_agent"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       15 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		Timeline: TimelineConfig{
			Start: "1975-01-01",
		},
		Monitoring: MonitoringConfig{
			Enabled:           false,
			Checker:           "static",
			Interval:          time.Minute,
			Timeout:           5 * time.Second,
			RetryAttempts:     3,
			InitialBackoff:    500 * time.Millisecond,
			MaxBackoff:        5 * time.Second,
			BackoffMultiplier: 2.0,
			RateLimit:         2.0,
		},
	}
}

// Load builds the configuration. path may be empty to skip the YAML file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := Default()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

// envKey maps GOVSTATUS_SERVER__METRICS_PORT to server.metrics_port.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}
