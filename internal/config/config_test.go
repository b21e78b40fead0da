package config_test

import (
	"testing"
	"time"

	"github.com/scriptmark-labs/scriptmark/internal/config"
)

func TestAnalysisConfigDefaults(t *testing.T) {
	cfg := config.AnalysisConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.Provider != config.AnalysisProviderLocal {
		t.Errorf("Provider = %q, want local", cfg.Provider)
	}
	if cfg.PollIntervalDuration() != time.Minute {
		t.Errorf("PollInterval = %v, want 1m", cfg.PollIntervalDuration())
	}
	if cfg.TimeoutDuration() != 180*time.Minute {
		t.Errorf("Timeout = %v, want 180m", cfg.TimeoutDuration())
	}
	if cfg.MarksPerQuestion != 1 {
		t.Errorf("MarksPerQuestion = %d, want 1", cfg.MarksPerQuestion)
	}
	if len(cfg.Features) != 2 {
		t.Errorf("Features = %v, want FORMS and TABLES", cfg.Features)
	}
}

func TestAnalysisConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.AnalysisConfig
	}{
		{"http provider without endpoint", config.AnalysisConfig{Provider: "http"}},
		{"unknown provider", config.AnalysisConfig{Provider: "textract"}},
		{"bad poll interval", config.AnalysisConfig{PollInterval: "soon"}},
		{"bad timeout", config.AnalysisConfig{Timeout: "never"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAnalysisConfigEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvAnalysisProvider, "http")
	t.Setenv(config.EnvAnalysisEndpoint, "http://analysis.local")
	t.Setenv(config.EnvAnalysisPollInterval, "5s")
	t.Setenv(config.EnvAnalysisFeatures, "FORMS, TABLES")

	cfg := config.AnalysisConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.Provider != "http" || cfg.Endpoint != "http://analysis.local" {
		t.Errorf("provider/endpoint = %q/%q", cfg.Provider, cfg.Endpoint)
	}
	if cfg.PollIntervalDuration() != 5*time.Second {
		t.Errorf("PollInterval = %v, want 5s", cfg.PollIntervalDuration())
	}
	if len(cfg.Features) != 2 || cfg.Features[1] != "TABLES" {
		t.Errorf("Features = %v, want trimmed FORMS,TABLES", cfg.Features)
	}
}

func TestAnalysisConfigMerge(t *testing.T) {
	cfg := config.AnalysisConfig{Provider: "local", PollInterval: "1m"}
	cfg.Merge(&config.AnalysisConfig{PollInterval: "30s", MarksPerQuestion: 3})

	if cfg.Provider != "local" {
		t.Errorf("Provider = %q, overlay should not clear it", cfg.Provider)
	}
	if cfg.PollInterval != "30s" {
		t.Errorf("PollInterval = %q, want 30s", cfg.PollInterval)
	}
	if cfg.MarksPerQuestion != 3 {
		t.Errorf("MarksPerQuestion = %d, want 3", cfg.MarksPerQuestion)
	}
}

func TestOrientationConfigDefaults(t *testing.T) {
	cfg := config.OrientationConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.SettleDelayDuration() != 5*time.Second {
		t.Errorf("SettleDelay = %v, want 5s", cfg.SettleDelayDuration())
	}
	if cfg.Agent.Name != "orientation-detector" {
		t.Errorf("Agent.Name = %q", cfg.Agent.Name)
	}
}

func TestOrientationConfigSettleDelayOverride(t *testing.T) {
	t.Setenv(config.EnvOrientationSettleDelay, "250ms")

	cfg := config.OrientationConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.SettleDelayDuration() != 250*time.Millisecond {
		t.Errorf("SettleDelay = %v, want 250ms", cfg.SettleDelayDuration())
	}
}

func TestOrientationConfigAgentEnvOverrides(t *testing.T) {
	t.Setenv(config.EnvAgentProviderName, "azure")
	t.Setenv(config.EnvAgentBaseURL, "http://vision.local")
	t.Setenv(config.EnvAgentModelName, "gpt-4o")
	t.Setenv(config.EnvAgentToken, "secret")

	cfg := config.OrientationConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.Agent.Client == nil {
		t.Fatal("Agent.Client is nil")
	}
	provider := cfg.Agent.Client.Provider
	if provider == nil {
		t.Fatal("Agent.Client.Provider is nil")
	}
	if provider.Name != "azure" {
		t.Errorf("Provider.Name = %q, want azure", provider.Name)
	}
	if provider.BaseURL != "http://vision.local" {
		t.Errorf("Provider.BaseURL = %q, want http://vision.local", provider.BaseURL)
	}
	if provider.Model == nil || provider.Model.Name != "gpt-4o" {
		t.Errorf("Provider.Model = %+v, want name gpt-4o", provider.Model)
	}
	if provider.Options["token"] != "secret" {
		t.Errorf("Provider.Options[token] = %v, want secret", provider.Options["token"])
	}
}

func TestNotifyConfigValidation(t *testing.T) {
	t.Run("disabled requires nothing", func(t *testing.T) {
		cfg := config.NotifyConfig{}
		if err := cfg.Finalize(); err != nil {
			t.Errorf("Finalize error: %v", err)
		}
	})

	t.Run("enabled requires endpoint", func(t *testing.T) {
		cfg := config.NotifyConfig{Enabled: true}
		if err := cfg.Finalize(); err == nil {
			t.Error("expected validation error")
		}
	})

	t.Run("enabled with endpoint", func(t *testing.T) {
		cfg := config.NotifyConfig{Enabled: true, Endpoint: "http://hooks.local/approve"}
		if err := cfg.Finalize(); err != nil {
			t.Errorf("Finalize error: %v", err)
		}
	})
}

func TestServerConfigDefaults(t *testing.T) {
	cfg := config.ServerConfig{}
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize error: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
}
