package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/attachments"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/comment"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/config"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/gitexec"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/taskctx"
)

func newPrepareCommand() *cobra.Command {
	var (
		number       int
		isPR         bool
		outputPath   string
		trackComment bool
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Fetch and normalize the task context, resolve image attachments, and write the agent context file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newPlatformClient(cfg)
			if err != nil {
				return err
			}

			result, err := prepare(cmd.Context(), cfg, client, logger, number, isPR, outputPath)
			if err != nil {
				return err
			}

			if trackComment {
				tracker := comment.NewTracker(client, number)
				id, err := tracker.CreateInitial(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "comment_id=%d\n", id)
			}

			logger.Info("context prepared",
				"entity", result.Entity.Number, "comments", len(result.Comments), "files", len(result.Files))
			return nil
		},
	}

	cmd.Flags().IntVar(&number, "number", 0, "Issue or pull request number")
	cmd.Flags().BoolVar(&isPR, "pr", false, "Treat the entity as a pull request")
	cmd.Flags().StringVar(&outputPath, "output", "/tmp/claude-action/context.md", "Path of the generated agent context file")
	cmd.Flags().BoolVar(&trackComment, "track-comment", false, "Create the tracking comment and print its id")
	_ = cmd.MarkFlagRequired("number")

	return cmd
}

// prepare runs the context pipeline: fetch, resolve attachments, format, and
// write the agent context file.
func prepare(ctx context.Context, cfg *config.Config, client platform.Client, logger *slog.Logger, number int, isPR bool, outputPath string) (*taskctx.Result, error) {
	git := gitexec.NewGit(nil, "")
	fetcher := taskctx.NewFetcher(client, git, logger)

	result, err := fetcher.Fetch(ctx, number, isPR)
	if err != nil {
		return nil, err
	}

	resolver := attachments.NewResolver(client, cfg.ServerURL, cfg.ScratchDir, logger)
	imageMap, err := resolver.Resolve(ctx, result.Comments)
	if err != nil {
		return nil, err
	}
	logger.Info("attachments resolved", "count", len(imageMap))

	rendered := taskctx.FormatContext(result, imageMap)
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(rendered), 0o644); err != nil {
		return nil, fmt.Errorf("write context file: %w", err)
	}

	return result, nil
}
