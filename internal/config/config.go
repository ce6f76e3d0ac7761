// Package config provides configuration management for the shopping list.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	DefaultServerPort      = 8080
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMetricsEnabled  = true
	DefaultAuthMode        = "none"
)

// EnvPrefix is prepended to every environment variable override, e.g.
// SHOPLIST_SERVER_PORT for server.port.
const EnvPrefix = "SHOPLIST"

// Configuration keys. Nested keys map to environment variables by replacing
// "." with "_" and adding EnvPrefix.
const (
	KeyServerPort      = "server.port"
	KeyShutdownTimeout = "server.shutdown_timeout"
	KeyLogLevel        = "log.level"
	KeyLogFile         = "log.file"
	KeyMetricsEnabled  = "metrics.enabled"
	KeyAuthMode        = "auth.mode"
	KeyBasicAuthUsers  = "auth.basic_users"
	KeyAPIKeys         = "auth.api_keys" //nolint:gosec // config key, not a credential
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// ServerConfig holds settings of the remote view server.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LogConfig holds logger settings. An empty File means stdout for the
// server and no logging for the terminal UI.
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// AuthConfig holds remote view authentication settings.
type AuthConfig struct {
	// Mode is one of: none, basic, apikey, multi.
	Mode string `mapstructure:"mode"`

	// BasicUsers has the format "user1:bcrypt_hash,user2:bcrypt_hash".
	BasicUsers string `mapstructure:"basic_users"`

	// APIKeys has the format "key1:name1,key2:name2".
	APIKeys string `mapstructure:"api_keys"`
}

// Validation errors.
var (
	ErrInvalidServerPort      = errors.New("server port must be between 1 and 65535")
	ErrInvalidLogLevel        = errors.New("log level must be one of: debug, info, warn, error")
	ErrInvalidShutdownTimeout = errors.New("shutdown timeout must be positive")
	ErrInvalidAuthMode        = errors.New(
		"auth mode must be one of: none, basic, apikey, multi",
	)
	ErrInvalidBasicAuthConfig = errors.New(
		"basic auth users must be set when auth mode is basic",
	)
	ErrInvalidAPIKeyConfig = errors.New(
		"API keys must be set when auth mode is apikey",
	)
	ErrInvalidMultiAuthConfig = errors.New(
		"at least one auth config must be provided when auth mode is multi",
	)
)

// Load reads configuration from defaults, the optional config file at path
// and environment variables, in increasing order of priority.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that environment overrides are seen
// by Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyServerPort, DefaultServerPort)
	v.SetDefault(KeyShutdownTimeout, DefaultShutdownTimeout)
	v.SetDefault(KeyLogLevel, DefaultLogLevel)
	v.SetDefault(KeyLogFile, "")
	v.SetDefault(KeyMetricsEnabled, DefaultMetricsEnabled)
	v.SetDefault(KeyAuthMode, DefaultAuthMode)
	v.SetDefault(KeyBasicAuthUsers, "")
	v.SetDefault(KeyAPIKeys, "")
}

// Validate checks if the configuration values are valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}

	if err := c.validateAuth(); err != nil {
		return err
	}

	return nil
}

// validateServer validates server and logging configuration.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidServerPort
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[c.Log.Level] {
		return ErrInvalidLogLevel
	}

	if c.Server.ShutdownTimeout <= 0 {
		return ErrInvalidShutdownTimeout
	}

	return nil
}

// validateAuth validates authentication configuration.
func (c *Config) validateAuth() error {
	authMode := c.AuthModeOrDefault()

	validAuthModes := map[string]bool{
		"none":   true,
		"basic":  true,
		"apikey": true,
		"multi":  true,
	}
	if !validAuthModes[authMode] {
		return ErrInvalidAuthMode
	}

	switch authMode {
	case "basic":
		if c.Auth.BasicUsers == "" {
			return ErrInvalidBasicAuthConfig
		}
	case "apikey":
		if c.Auth.APIKeys == "" {
			return ErrInvalidAPIKeyConfig
		}
	case "multi":
		if c.Auth.BasicUsers == "" && c.Auth.APIKeys == "" {
			return ErrInvalidMultiAuthConfig
		}
	}

	return nil
}

// AuthModeOrDefault returns the auth mode, defaulting to "none" if empty.
func (c *Config) AuthModeOrDefault() string {
	if c.Auth.Mode == "" {
		return DefaultAuthMode
	}
	return c.Auth.Mode
}

// Address returns the server address in host:port format.
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
