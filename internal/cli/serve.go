package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/config"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/validation"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/webhook"
)

func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Listen for forge webhooks and prepare agent context on trigger comments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.WebhookSecret == "" {
				return fmt.Errorf("WEBHOOK_SECRET is required for serve mode")
			}

			runner := &triggerRunner{cfg: cfg, logger: logger}
			handler := webhook.NewHandler(cfg.WebhookSecret, cfg.TriggerKeyword, runner, logger)

			addr := fmt.Sprintf(":%d", cfg.Port)
			logger.Info("listening for webhooks", "addr", addr, "keyword", cfg.TriggerKeyword)
			return http.ListenAndServe(addr, handler.Router())
		},
	}
	return cmd
}

// triggerRunner runs the prepare pipeline for an accepted webhook trigger.
type triggerRunner struct {
	cfg    *config.Config
	logger *slog.Logger
}

func (r *triggerRunner) Run(ctx context.Context, trigger *webhook.Trigger) error {
	// The trigger names the repository; rebuild the client against it so one
	// server can front several repositories.
	cfg := *r.cfg
	cfg.Repository = trigger.Owner + "/" + trigger.Repo

	client, err := newPlatformClient(&cfg)
	if err != nil {
		return err
	}

	human, err := validation.IsHumanActor(ctx, client, trigger.Actor)
	if err != nil {
		return fmt.Errorf("actor lookup failed: %w", err)
	}
	if !human {
		r.logger.Info("ignoring bot actor", "actor", trigger.Actor)
		return nil
	}
	if err := validation.EnsureWritePermission(ctx, client, trigger.Actor); err != nil {
		return fmt.Errorf("actor rejected: %w", err)
	}

	output := filepath.Join(cfg.ScratchDir, fmt.Sprintf("context-%d.md", trigger.Number))
	_, err = prepare(ctx, &cfg, client, r.logger, trigger.Number, trigger.IsPR, output)
	return err
}
