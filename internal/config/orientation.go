package config

import (
	"fmt"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvOrientationSettleDelay = "SCRIPTMARK_ORIENTATION_SETTLE_DELAY"
)

// OrientationConfig holds orientation correction settings and the vision
// agent used for rotation detection.
type OrientationConfig struct {
	SettleDelay string               `toml:"settle_delay"`
	Agent       gaconfig.AgentConfig `toml:"agent"`
}

// SettleDelayDuration returns SettleDelay as a time.Duration.
func (c *OrientationConfig) SettleDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.SettleDelay)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *OrientationConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *OrientationConfig) Merge(overlay *OrientationConfig) {
	if overlay.SettleDelay != "" {
		c.SettleDelay = overlay.SettleDelay
	}
	c.Agent.Merge(&overlay.Agent)
}

func (c *OrientationConfig) loadDefaults() {
	if c.SettleDelay == "" {
		c.SettleDelay = "5s"
	}
	if c.Agent.Name == "" {
		c.Agent.Name = "orientation-detector"
	}
}

func (c *OrientationConfig) loadEnv() {
	if v := os.Getenv(EnvOrientationSettleDelay); v != "" {
		c.SettleDelay = v
	}
}

func (c *OrientationConfig) validate() error {
	if _, err := time.ParseDuration(c.SettleDelay); err != nil {
		return fmt.Errorf("invalid settle_delay: %w", err)
	}
	return nil
}
