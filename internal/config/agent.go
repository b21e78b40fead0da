package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "SCRIPTMARK_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "SCRIPTMARK_AGENT_BASE_URL"
	EnvAgentToken        = "SCRIPTMARK_AGENT_TOKEN"
	EnvAgentDeployment   = "SCRIPTMARK_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "SCRIPTMARK_AGENT_API_VERSION"
	EnvAgentAuthType     = "SCRIPTMARK_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "SCRIPTMARK_AGENT_MODEL_NAME"
)

// FinalizeAgent applies the three-phase finalize pattern to a go-agents
// AgentConfig: defaults from go-agents DefaultAgentConfig, environment
// variable overrides, and validation.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	loadAgentDefaults(c)
	loadAgentEnv(c)
	return validateAgent(c)
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Client == nil {
		c.Client = &gaconfig.ClientConfig{}
	}
	if c.Client.Provider == nil {
		c.Client.Provider = &gaconfig.ProviderConfig{}
	}

	provider := c.Client.Provider
	if provider.Options == nil {
		provider.Options = make(map[string]any)
	}
	if provider.Model == nil {
		provider.Model = &gaconfig.ModelConfig{}
	}

	if v := os.Getenv(EnvAgentProviderName); v != "" {
		provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		provider.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Client == nil || c.Client.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Client.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Client.Provider.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
