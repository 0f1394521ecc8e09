package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/gitexec"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/reconcile"
)

func newReconcileCommand() *cobra.Command {
	var (
		workingBranch string
		baseBranch    string
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Decide whether the agent's working branch is linked, auto-committed, or deleted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			client, err := newPlatformClient(cfg)
			if err != nil {
				return err
			}

			if workingBranch == "" {
				workingBranch = cfg.WorkingBranch
			}
			if baseBranch == "" {
				baseBranch = cfg.BaseBranch
			}

			reconciler := reconcile.New(client, gitexec.NewGit(nil, ""), logger)
			result := reconciler.Reconcile(cmd.Context(), reconcile.Options{
				WorkingBranch:    workingBranch,
				BaseBranch:       baseBranch,
				UseCommitSigning: cfg.UseCommitSigning,
				RunID:            cfg.RunID,
				ServerURL:        cfg.ServerURL,
				Owner:            cfg.Owner(),
				Repo:             cfg.Name(),
			})

			fmt.Fprintf(cmd.OutOrStdout(), "should_delete_branch=%t\nbranch_link=%s\n",
				result.ShouldDeleteBranch, result.BranchLink)
			return nil
		},
	}

	cmd.Flags().StringVar(&workingBranch, "branch", "", "Working branch name (default $CLAUDE_BRANCH)")
	cmd.Flags().StringVar(&baseBranch, "base", "", "Base branch name (default $BASE_BRANCH)")

	return cmd
}
