// Package config loads the action configuration from the environment.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/google/uuid"
)

// PlatformKind identifies which REST dialect the action talks to.
type PlatformKind string

const (
	// PlatformGitHub is the GitHub-style REST dialect.
	PlatformGitHub PlatformKind = "github"
	// PlatformGitea is the Gitea-style REST dialect.
	PlatformGitea PlatformKind = "gitea"
)

// Config holds all configuration for a single action run.
type Config struct {
	// API endpoints. GiteaAPIURL being set selects the Gitea dialect.
	APIBaseURL  string `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
	ServerURL   string `env:"GITHUB_SERVER_URL" envDefault:"https://github.com"`
	GiteaAPIURL string `env:"GITEA_API_URL"`

	// Authentication: either a plain token or GitHub App credentials.
	Token        string `env:"GITHUB_TOKEN"`
	GitHubAppID  string `env:"GITHUB_APP_ID"`
	GitHubAppKey string `env:"GITHUB_PRIVATE_KEY"`

	// Repository and run identity.
	Repository string `env:"GITHUB_REPOSITORY"`
	RunID      string `env:"GITHUB_RUN_ID"`

	// Branch reconciliation.
	BaseBranch       string `env:"BASE_BRANCH"`
	WorkingBranch    string `env:"CLAUDE_BRANCH"`
	UseCommitSigning bool   `env:"USE_COMMIT_SIGNING"`

	// Attachment download scratch directory.
	ScratchDir string `env:"IMAGE_SCRATCH_DIR" envDefault:"/tmp/claude-action/images"`

	// Webhook serve mode.
	Port           int    `env:"PORT" envDefault:"8000"`
	WebhookSecret  string `env:"WEBHOOK_SECRET"`
	TriggerKeyword string `env:"TRIGGER_KEYWORD" envDefault:"@claude"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load parses configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Platform reports which REST dialect this run targets.
func (c *Config) Platform() PlatformKind {
	if c.GiteaAPIURL != "" {
		return PlatformGitea
	}
	return PlatformGitHub
}

// APIBase returns the effective API base URL for the active dialect.
func (c *Config) APIBase() string {
	if c.GiteaAPIURL != "" {
		return strings.TrimSuffix(c.GiteaAPIURL, "/")
	}
	return strings.TrimSuffix(c.APIBaseURL, "/")
}

// Owner returns the repository owner.
func (c *Config) Owner() string {
	owner, _, _ := splitRepository(c.Repository)
	return owner
}

// Name returns the repository name without the owner.
func (c *Config) Name() string {
	_, name, _ := splitRepository(c.Repository)
	return name
}

// validate checks that required configuration is present.
func (c *Config) validate() error {
	if c.Repository == "" {
		return fmt.Errorf("GITHUB_REPOSITORY is required")
	}
	if _, _, err := splitRepository(c.Repository); err != nil {
		return err
	}
	if c.Token == "" && (c.GitHubAppID == "" || c.GitHubAppKey == "") {
		return fmt.Errorf("GITHUB_TOKEN or GitHub App credentials are required")
	}
	if c.Platform() == PlatformGitea && c.Token == "" {
		return fmt.Errorf("GITHUB_TOKEN is required for the Gitea dialect")
	}
	return nil
}

func splitRepository(repository string) (string, string, error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository format: %s (want owner/repo)", repository)
	}
	return parts[0], parts[1], nil
}
