// Package config provides configuration management for the shopping list.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// envVars lists every environment override recognised by Load.
var envVars = []string{
	"SHOPLIST_SERVER_PORT",
	"SHOPLIST_SERVER_SHUTDOWN_TIMEOUT",
	"SHOPLIST_LOG_LEVEL",
	"SHOPLIST_LOG_FILE",
	"SHOPLIST_METRICS_ENABLED",
	"SHOPLIST_AUTH_MODE",
	"SHOPLIST_AUTH_BASIC_USERS",
	"SHOPLIST_AUTH_API_KEYS",
}

func TestLoad_DefaultValues(t *testing.T) {
	// Arrange - Clear all environment variables
	clearEnvVars(t)

	// Act
	cfg, err := Load("")

	// Assert
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Server.Port != DefaultServerPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultServerPort)
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %s, want %s", cfg.Log.Level, DefaultLogLevel)
	}
	if cfg.Log.File != "" {
		t.Errorf("Log.File = %s, want empty string", cfg.Log.File)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.Metrics.Enabled != DefaultMetricsEnabled {
		t.Errorf("Metrics.Enabled = %v, want %v", cfg.Metrics.Enabled, DefaultMetricsEnabled)
	}
	if cfg.AuthModeOrDefault() != DefaultAuthMode {
		t.Errorf("AuthModeOrDefault() = %s, want %s", cfg.AuthModeOrDefault(), DefaultAuthMode)
	}
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name:    "custom server port",
			envVars: map[string]string{"SHOPLIST_SERVER_PORT": "9090"},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.Port != 9090 {
					t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
				}
			},
		},
		{
			name:    "custom log level and file",
			envVars: map[string]string{"SHOPLIST_LOG_LEVEL": "debug", "SHOPLIST_LOG_FILE": "/tmp/shoplist.log"},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Log.Level != "debug" {
					t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
				}
				if cfg.Log.File != "/tmp/shoplist.log" {
					t.Errorf("Log.File = %s, want /tmp/shoplist.log", cfg.Log.File)
				}
			},
		},
		{
			name:    "custom shutdown timeout",
			envVars: map[string]string{"SHOPLIST_SERVER_SHUTDOWN_TIMEOUT": "5s"},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Server.ShutdownTimeout != 5*time.Second {
					t.Errorf("Server.ShutdownTimeout = %v, want 5s", cfg.Server.ShutdownTimeout)
				}
			},
		},
		{
			name:    "metrics disabled",
			envVars: map[string]string{"SHOPLIST_METRICS_ENABLED": "false"},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Metrics.Enabled {
					t.Error("Metrics.Enabled = true, want false")
				}
			},
		},
		{
			name: "api key auth",
			envVars: map[string]string{
				"SHOPLIST_AUTH_MODE":     "apikey",
				"SHOPLIST_AUTH_API_KEYS": "secret:kitchen-tablet",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.Auth.Mode != "apikey" {
					t.Errorf("Auth.Mode = %s, want apikey", cfg.Auth.Mode)
				}
				if cfg.Auth.APIKeys != "secret:kitchen-tablet" {
					t.Errorf("Auth.APIKeys = %s, want secret:kitchen-tablet", cfg.Auth.APIKeys)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			clearEnvVars(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Act
			cfg, err := Load("")

			// Assert
			if err != nil {
				t.Fatalf("Load() returned unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	// Arrange
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), "shoplist.yaml")
	content := `server:
  port: 7070
log:
  level: warn
auth:
  mode: basic
  basic_users: "alice:$2a$10$abcdefghijklmnopqrstuv"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	// Act
	cfg, err := Load(path)

	// Assert
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %s, want warn", cfg.Log.Level)
	}
	if cfg.Auth.Mode != "basic" {
		t.Errorf("Auth.Mode = %s, want basic", cfg.Auth.Mode)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("Server.ShutdownTimeout = %v, want default %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
}

func TestLoad_EnvOverridesConfigFile(t *testing.T) {
	// Arrange
	clearEnvVars(t)
	path := filepath.Join(t.TempDir(), "shoplist.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv("SHOPLIST_SERVER_PORT", "6060")

	// Act
	cfg, err := Load(path)

	// Assert
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Server.Port != 6060 {
		t.Errorf("Server.Port = %d, want 6060", cfg.Server.Port)
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	// Arrange
	clearEnvVars(t)

	// Act
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	// Assert
	if err == nil {
		t.Error("Load() expected error for missing config file")
	}
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr error
	}{
		{
			name:    "port too high",
			envVars: map[string]string{"SHOPLIST_SERVER_PORT": "70000"},
			wantErr: ErrInvalidServerPort,
		},
		{
			name:    "invalid log level",
			envVars: map[string]string{"SHOPLIST_LOG_LEVEL": "verbose"},
			wantErr: ErrInvalidLogLevel,
		},
		{
			name:    "zero shutdown timeout",
			envVars: map[string]string{"SHOPLIST_SERVER_SHUTDOWN_TIMEOUT": "0s"},
			wantErr: ErrInvalidShutdownTimeout,
		},
		{
			name:    "unknown auth mode",
			envVars: map[string]string{"SHOPLIST_AUTH_MODE": "oidc"},
			wantErr: ErrInvalidAuthMode,
		},
		{
			name:    "basic without users",
			envVars: map[string]string{"SHOPLIST_AUTH_MODE": "basic"},
			wantErr: ErrInvalidBasicAuthConfig,
		},
		{
			name:    "apikey without keys",
			envVars: map[string]string{"SHOPLIST_AUTH_MODE": "apikey"},
			wantErr: ErrInvalidAPIKeyConfig,
		},
		{
			name:    "multi without any config",
			envVars: map[string]string{"SHOPLIST_AUTH_MODE": "multi"},
			wantErr: ErrInvalidMultiAuthConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			clearEnvVars(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Act
			_, err := Load("")

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
	}{
		{
			name:    "non-numeric port",
			envVars: map[string]string{"SHOPLIST_SERVER_PORT": "abc"},
		},
		{
			name:    "invalid duration",
			envVars: map[string]string{"SHOPLIST_SERVER_SHUTDOWN_TIMEOUT": "soon"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			clearEnvVars(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			// Act
			_, err := Load("")

			// Assert
			if err == nil {
				t.Error("Load() expected parse error, got nil")
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server: ServerConfig{Port: 8080, ShutdownTimeout: time.Second},
			Log:    LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{name: "empty auth mode defaults to none", mutate: func(c *Config) { c.Auth.Mode = "" }},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: ErrInvalidServerPort},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.ShutdownTimeout = -time.Second }, wantErr: ErrInvalidShutdownTimeout},
		{
			name: "multi with api keys",
			mutate: func(c *Config) {
				c.Auth.Mode = "multi"
				c.Auth.APIKeys = "k:n"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			cfg := valid()
			tt.mutate(&cfg)

			// Act
			err := cfg.Validate()

			// Assert
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Address(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 8080}}

	if got := cfg.Address(); got != ":8080" {
		t.Errorf("Address() = %s, want :8080", got)
	}
}

// clearEnvVars blanks every override for the duration of the test.
func clearEnvVars(t *testing.T) {
	t.Helper()
	for _, env := range envVars {
		t.Setenv(env, "")
		if err := os.Unsetenv(env); err != nil {
			t.Fatalf("failed to unset env var %s: %v", env, err)
		}
	}
}
