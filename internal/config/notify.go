package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

const (
	EnvNotifyEnabled  = "SCRIPTMARK_NOTIFY_ENABLED"
	EnvNotifyEndpoint = "SCRIPTMARK_NOTIFY_ENDPOINT"
)

// NotifyConfig holds approval notification settings. When disabled,
// completed executions are recorded without publishing an event.
type NotifyConfig struct {
	Enabled  bool   `toml:"enabled"`
	Endpoint string `toml:"endpoint"`
}

// Finalize applies environment variable overrides and validation.
func (c *NotifyConfig) Finalize() error {
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *NotifyConfig) Merge(overlay *NotifyConfig) {
	c.Enabled = overlay.Enabled
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
}

func (c *NotifyConfig) loadEnv() {
	if v := os.Getenv(EnvNotifyEnabled); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			c.Enabled = enabled
		}
	}
	if v := os.Getenv(EnvNotifyEndpoint); v != "" {
		c.Endpoint = v
	}
}

func (c *NotifyConfig) validate() error {
	if !c.Enabled {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required when notifications enabled")
	}
	if _, err := url.ParseRequestURI(c.Endpoint); err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}
	return nil
}
