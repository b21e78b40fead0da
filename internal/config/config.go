// Package config provides layered TOML configuration for the Scriptmark
// service: base file, environment overlay, and environment variable
// overrides, finalized with defaults and validation.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/scriptmark-labs/scriptmark/pkg/database"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvScriptmarkEnv             = "SCRIPTMARK_ENV"
	EnvScriptmarkShutdownTimeout = "SCRIPTMARK_SHUTDOWN_TIMEOUT"
	EnvScriptmarkVersion         = "SCRIPTMARK_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "SCRIPTMARK_DB_HOST",
	Port:            "SCRIPTMARK_DB_PORT",
	Name:            "SCRIPTMARK_DB_NAME",
	User:            "SCRIPTMARK_DB_USER",
	Password:        "SCRIPTMARK_DB_PASSWORD",
	SSLMode:         "SCRIPTMARK_DB_SSL_MODE",
	MaxOpenConns:    "SCRIPTMARK_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "SCRIPTMARK_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "SCRIPTMARK_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "SCRIPTMARK_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Provider:         "SCRIPTMARK_STORAGE_PROVIDER",
	ContainerName:    "SCRIPTMARK_STORAGE_CONTAINER_NAME",
	ConnectionString: "SCRIPTMARK_STORAGE_CONNECTION_STRING",
	Endpoint:         "SCRIPTMARK_STORAGE_ENDPOINT",
	AccessKey:        "SCRIPTMARK_STORAGE_ACCESS_KEY",
	SecretKey:        "SCRIPTMARK_STORAGE_SECRET_KEY",
	UseSSL:           "SCRIPTMARK_STORAGE_USE_SSL",
	MaxListSize:      "SCRIPTMARK_STORAGE_MAX_LIST_SIZE",
}

// Config is the root configuration for the Scriptmark service.
type Config struct {
	Server          ServerConfig      `toml:"server"`
	Database        database.Config   `toml:"database"`
	Storage         storage.Config    `toml:"storage"`
	API             APIConfig         `toml:"api"`
	Analysis        AnalysisConfig    `toml:"analysis"`
	Orientation     OrientationConfig `toml:"orientation"`
	Notify          NotifyConfig      `toml:"notify"`
	ShutdownTimeout string            `toml:"shutdown_timeout"`
	Version         string            `toml:"version"`
}

// Env returns the SCRIPTMARK_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvScriptmarkEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Analysis.Merge(&overlay.Analysis)
	c.Orientation.Merge(&overlay.Orientation)
	c.Notify.Merge(&overlay.Notify)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := c.Analysis.Finalize(); err != nil {
		return fmt.Errorf("analysis: %w", err)
	}
	if err := c.Orientation.Finalize(); err != nil {
		return fmt.Errorf("orientation: %w", err)
	}
	if err := c.Notify.Finalize(); err != nil {
		return fmt.Errorf("notify: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvScriptmarkShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvScriptmarkVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvScriptmarkEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
