package cli

import (
	"fmt"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/auth"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/config"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// newPlatformClient resolves a token and builds the dialect client for cfg.
// GitHub App credentials take over only when no plain token is configured.
func newPlatformClient(cfg *config.Config) (platform.Client, error) {
	token := cfg.Token
	if token == "" {
		provider := auth.NewAppAuth(cfg.GitHubAppID, cfg.GitHubAppKey, cfg.APIBase())
		minted, err := provider.Token(cfg.Owner(), cfg.Name())
		if err != nil {
			return nil, fmt.Errorf("mint installation token: %w", err)
		}
		token = minted
	}

	kind := platform.KindGitHub
	if cfg.Platform() == config.PlatformGitea {
		kind = platform.KindGitea
	}

	return platform.New(platform.Options{
		Kind:    kind,
		APIBase: cfg.APIBase(),
		Owner:   cfg.Owner(),
		Repo:    cfg.Name(),
		Token:   token,
	})
}
