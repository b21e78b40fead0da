package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/scriptmark-labs/scriptmark/internal/analysis"
)

// Analysis provider names.
const (
	AnalysisProviderHTTP  = "http"
	AnalysisProviderLocal = "local"
)

const (
	EnvAnalysisProvider         = "SCRIPTMARK_ANALYSIS_PROVIDER"
	EnvAnalysisEndpoint         = "SCRIPTMARK_ANALYSIS_ENDPOINT"
	EnvAnalysisAPIKey           = "SCRIPTMARK_ANALYSIS_API_KEY"
	EnvAnalysisFeatures         = "SCRIPTMARK_ANALYSIS_FEATURES"
	EnvAnalysisPollInterval     = "SCRIPTMARK_ANALYSIS_POLL_INTERVAL"
	EnvAnalysisTimeout          = "SCRIPTMARK_ANALYSIS_TIMEOUT"
	EnvAnalysisMarksPerQuestion = "SCRIPTMARK_ANALYSIS_MARKS_PER_QUESTION"
)

// AnalysisConfig holds document analysis provider and polling settings.
// Endpoint and APIKey apply to the http provider; the local provider
// performs OCR in-process against the configured storage backend.
type AnalysisConfig struct {
	Provider         string   `toml:"provider"`
	Endpoint         string   `toml:"endpoint"`
	APIKey           string   `toml:"api_key"`
	Features         []string `toml:"features"`
	PollInterval     string   `toml:"poll_interval"`
	Timeout          string   `toml:"timeout"`
	MarksPerQuestion int      `toml:"marks_per_question"`
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *AnalysisConfig) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *AnalysisConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *AnalysisConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *AnalysisConfig) Merge(overlay *AnalysisConfig) {
	if overlay.Provider != "" {
		c.Provider = overlay.Provider
	}
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.APIKey != "" {
		c.APIKey = overlay.APIKey
	}
	if len(overlay.Features) > 0 {
		c.Features = overlay.Features
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MarksPerQuestion != 0 {
		c.MarksPerQuestion = overlay.MarksPerQuestion
	}
}

func (c *AnalysisConfig) loadDefaults() {
	if c.Provider == "" {
		c.Provider = AnalysisProviderLocal
	}
	if len(c.Features) == 0 {
		c.Features = []string{analysis.FeatureForms, analysis.FeatureTables}
	}
	if c.PollInterval == "" {
		c.PollInterval = "1m"
	}
	if c.Timeout == "" {
		c.Timeout = "180m"
	}
	if c.MarksPerQuestion == 0 {
		c.MarksPerQuestion = 1
	}
}

func (c *AnalysisConfig) loadEnv() {
	if v := os.Getenv(EnvAnalysisProvider); v != "" {
		c.Provider = v
	}
	if v := os.Getenv(EnvAnalysisEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := os.Getenv(EnvAnalysisAPIKey); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv(EnvAnalysisFeatures); v != "" {
		features := strings.Split(v, ",")
		for i := range features {
			features[i] = strings.TrimSpace(features[i])
		}
		c.Features = features
	}
	if v := os.Getenv(EnvAnalysisPollInterval); v != "" {
		c.PollInterval = v
	}
	if v := os.Getenv(EnvAnalysisTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvAnalysisMarksPerQuestion); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MarksPerQuestion = n
		}
	}
}

func (c *AnalysisConfig) validate() error {
	switch c.Provider {
	case AnalysisProviderHTTP:
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for http provider")
		}
	case AnalysisProviderLocal:
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}

	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if c.MarksPerQuestion < 1 {
		return fmt.Errorf("marks_per_question must be positive")
	}
	return nil
}
