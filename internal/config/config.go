package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything the recap run needs. Values come from the
// optional YAML file, back-filled from environment variables.
type Config struct {
	Provider  ProviderConfig  `yaml:"provider"`
	Summaries SummariesConfig `yaml:"summaries"`
	Slack     SlackConfig     `yaml:"slack"`
	Output    OutputConfig    `yaml:"output"`
}

// ProviderConfig holds git provider settings.
type ProviderConfig struct {
	Kind       string `yaml:"kind"`       // github or gitlab
	Repository string `yaml:"repository"` // owner/repo
	Token      string `yaml:"token"`
	BotLogin   string `yaml:"bot_login"` // comment bot carrying extra PR details
}

// SummariesConfig holds AI summary settings. An empty APIKey disables
// summaries entirely.
type SummariesConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// SlackConfig holds Slack settings; the token is required only when a
// Slack target is requested.
type SlackConfig struct {
	Token string `yaml:"token"`
}

// OutputConfig holds file output settings.
type OutputConfig struct {
	Dir string `yaml:"dir"`
}

// envVarPattern matches ${VAR_NAME} patterns.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			Kind: "github",
		},
	}
}

// Load reads and parses the config file at the given path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Substitute environment variables
	data = envVarPattern.ReplaceAllFunc(data, func(match []byte) []byte {
		varName := envVarPattern.FindSubmatch(match)[1]
		return []byte(os.Getenv(string(varName)))
	})

	// Start with defaults
	cfg := DefaultConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a Config from environment variables alone, for runs
// without a config file.
func FromEnv() *Config {
	cfg := DefaultConfig()
	cfg.applyEnv()
	return cfg
}

// applyEnv back-fills empty fields from the environment.
func (c *Config) applyEnv() {
	fill(&c.Provider.Repository, "RECAP_REPOSITORY")
	fill(&c.Provider.BotLogin, "RECAP_BOT_LOGIN")
	if c.Provider.Token == "" {
		switch c.Provider.Kind {
		case "gitlab":
			fill(&c.Provider.Token, "GITLAB_ACCESS_TOKEN")
		default:
			fill(&c.Provider.Token, "GITHUB_ACCESS_TOKEN")
		}
	}
	fill(&c.Summaries.APIKey, "ANTHROPIC_API_KEY")
	fill(&c.Slack.Token, "SLACK_API_TOKEN")
}

func fill(dst *string, envVar string) {
	if *dst == "" {
		*dst = os.Getenv(envVar)
	}
}

// Validate checks that required settings are present before any network
// activity happens.
func (c *Config) Validate() error {
	if c.Provider.Kind != "github" && c.Provider.Kind != "gitlab" {
		return fmt.Errorf("invalid provider kind %q (expected github or gitlab)", c.Provider.Kind)
	}
	if c.Provider.Repository == "" {
		return fmt.Errorf("no repository configured (set RECAP_REPOSITORY or provider.repository)")
	}
	if _, _, err := c.SplitRepository(); err != nil {
		return err
	}
	if c.Provider.Token == "" {
		return fmt.Errorf("no access token configured (set %s_ACCESS_TOKEN or provider.token)",
			strings.ToUpper(c.Provider.Kind))
	}
	return nil
}

// SplitRepository splits "owner/repo" into its parts.
func (c *Config) SplitRepository() (owner, repo string, err error) {
	parts := strings.Split(c.Provider.Repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q (expected owner/repo)", c.Provider.Repository)
	}
	return parts[0], parts[1], nil
}
