/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package config loads and validates the controller configuration from a
// TOML file overlaid with environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	toml "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variables used to configure the
// meta controller.
const EnvPrefix = "APIP_MC_"

// Config holds all configuration for the meta controller.
type Config struct {
	Controller Controller `koanf:"controller"`
}

// Controller holds the main configuration sections.
type Controller struct {
	Server  ServerConfig  `koanf:"server"`
	API     APIConfig     `koanf:"api"`
	System  SystemConfig  `koanf:"system"`
	Storage StorageConfig `koanf:"storage"`
	Logging LoggingConfig `koanf:"logging"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// APIConfig describes the public API surface shape.
type APIConfig struct {
	// Path is the leading API path segment, e.g. "api".
	Path string `koanf:"path"`
	// Version is the API version segment, e.g. "v1".
	Version string `koanf:"version"`
	// MetaPrefix is the deployment-chosen meta routing prefix, e.g. "meta"
	// or "experimental".
	MetaPrefix string `koanf:"meta_prefix"`
}

// SystemConfig identifies the privileged system namespace and the action
// backend invoked on its behalf.
type SystemConfig struct {
	// Namespace is the system namespace holding meta-routed packages and
	// actions, e.g. "whisk.system".
	Namespace string `koanf:"namespace"`
	// BackendHost is the base URL of the action invocation backend,
	// e.g. "http://localhost:10001".
	BackendHost string `koanf:"backend_host"`
	// InvokeTimeout bounds a single blocking backend invocation.
	InvokeTimeout time.Duration `koanf:"invoke_timeout"`
}

// StorageConfig selects the document store backing entities, auth records
// and trigger activations.
type StorageConfig struct {
	// Type is one of memory, sqlite or postgres.
	Type     string         `koanf:"type"`
	SQLite   SQLiteConfig   `koanf:"sqlite"`
	Postgres PostgresConfig `koanf:"postgres"`
	// SeedFile optionally points at a YAML file of entities loaded into the
	// store at startup (dev mode).
	SeedFile string `koanf:"seed_file"`
}

// SQLiteConfig holds SQLite storage configuration.
type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// PostgresConfig holds PostgreSQL storage configuration.
type PostgresConfig struct {
	DSN string `koanf:"dsn"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsConfig holds Prometheus metrics server configuration.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
	Port    int  `koanf:"port"`
}

// LoadConfig loads configuration from the given TOML file and applies
// APIP_MC_ environment variable overrides.
func LoadConfig(configPath string) (*Config, error) {
	cfg := defaultConfig()

	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	// Environment overrides: APIP_MC_CONTROLLER_SERVER_PORT maps to
	// controller.server.port; a double underscore escapes a literal one.
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, EnvPrefix)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "__", "%UNDERSCORE%")
		s = strings.ReplaceAll(s, "_", ".")
		s = strings.ReplaceAll(s, "%UNDERSCORE%", "_")
		return s
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			TagName:          "koanf",
			WeaklyTypedInput: true,
			Result:           cfg,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the controller cannot run
// without.
func (c *Config) Validate() error {
	ctrl := &c.Controller
	if ctrl.Server.Port <= 0 || ctrl.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", ctrl.Server.Port)
	}
	if ctrl.API.MetaPrefix == "" {
		return fmt.Errorf("api.meta_prefix must not be empty")
	}
	if strings.Contains(ctrl.API.MetaPrefix, "/") {
		return fmt.Errorf("api.meta_prefix must be a single path segment, got %q", ctrl.API.MetaPrefix)
	}
	if ctrl.System.Namespace == "" {
		return fmt.Errorf("system.namespace must not be empty")
	}
	if ctrl.System.BackendHost == "" {
		return fmt.Errorf("system.backend_host must not be empty")
	}
	switch ctrl.Storage.Type {
	case "memory", "sqlite", "postgres":
	default:
		return fmt.Errorf("storage.type must be memory, sqlite or postgres, got %q", ctrl.Storage.Type)
	}
	if ctrl.Storage.Type == "sqlite" && ctrl.Storage.SQLite.Path == "" {
		return fmt.Errorf("storage.sqlite.path must not be empty for sqlite storage")
	}
	if ctrl.Storage.Type == "postgres" && ctrl.Storage.Postgres.DSN == "" {
		return fmt.Errorf("storage.postgres.dsn must not be empty for postgres storage")
	}
	if ctrl.Metrics.Enabled && (ctrl.Metrics.Port <= 0 || ctrl.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", ctrl.Metrics.Port)
	}
	return nil
}

// IsPersistentMode reports whether a database-backed store is configured.
func (c *Config) IsPersistentMode() bool {
	return c.Controller.Storage.Type != "memory"
}

// defaultConfig returns a Config struct with default configuration values.
func defaultConfig() *Config {
	return &Config{
		Controller: Controller{
			Server: ServerConfig{
				Port:            9090,
				ShutdownTimeout: 15 * time.Second,
			},
			API: APIConfig{
				Path:       "api",
				Version:    "v1",
				MetaPrefix: "meta",
			},
			System: SystemConfig{
				Namespace:     "whisk.system",
				InvokeTimeout: 60 * time.Second,
			},
			Storage: StorageConfig{
				Type: "memory",
			},
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Metrics: MetricsConfig{
				Enabled: true,
				Port:    9095,
			},
		},
	}
}
