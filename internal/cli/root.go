// Package cli defines the command-line interface for the action binary.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/config"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/logging"
)

// Execute builds the root command and runs it with the provided args.
func Execute(args []string) error {
	rootCmd := newRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gitea-agent",
		Short:         "Bridge between a coding agent and a GitHub- or Gitea-style forge",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newPrepareCommand(),
		newReconcileCommand(),
		newServeCommand(),
	)

	return cmd
}

// loadConfig loads .env (best effort) and the environment configuration, and
// builds the run logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	logger := logging.NewLogger(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	return cfg, logger, nil
}
