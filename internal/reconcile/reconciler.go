// Package reconcile decides what happens to the agent's working branch after a
// run: link it, auto-commit leftover work to it, or delete it. Every ambiguous
// state resolves toward keeping the branch; deletion only happens when the
// branch is provably empty.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jason-webcomm/claude-code-gitea-action/internal/gitexec"
	"github.com/jason-webcomm/claude-code-gitea-action/internal/platform"
)

// Result is the branch disposition handed back to the caller.
type Result struct {
	ShouldDeleteBranch bool
	BranchLink         string
}

// Options parameterizes one reconciliation.
type Options struct {
	WorkingBranch string // empty means no branch was requested
	BaseBranch    string
	// UseCommitSigning means commits are signed out-of-band, so the agent
	// cannot have pushed its own commits from the working tree.
	UseCommitSigning bool
	RunID            string
	ServerURL        string
	Owner            string
	Repo             string
}

// Reconciler inspects the remote branch and local working tree and executes
// the disposition.
type Reconciler struct {
	client platform.Client
	git    gitexec.Executor
	logger *slog.Logger
}

// New constructs a Reconciler.
func New(client platform.Client, git gitexec.Executor, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{client: client, git: git, logger: logger}
}

// Reconcile computes the branch disposition and, when the branch is marked for
// deletion, issues the platform delete call. A deletion failure is logged and
// swallowed; the returned result is already final at that point.
func (r *Reconciler) Reconcile(ctx context.Context, opts Options) Result {
	result := r.decide(ctx, opts)

	if result.ShouldDeleteBranch {
		if err := r.client.DeleteBranch(ctx, opts.WorkingBranch); err != nil {
			r.logger.Warn("branch deletion failed, ignoring",
				"branch", opts.WorkingBranch, "error", err)
		}
	}

	return result
}

func (r *Reconciler) decide(ctx context.Context, opts Options) Result {
	if opts.WorkingBranch == "" {
		return Result{}
	}

	link := branchLink(r.client.Kind(), opts)

	branch, err := r.client.GetBranch(ctx, opts.WorkingBranch)
	if err != nil {
		if platform.IsNotFound(err) {
			// Nothing to link or delete.
			return Result{}
		}
		r.logger.Warn("branch head fetch failed, keeping branch",
			"branch", opts.WorkingBranch, "error", err)
		return Result{BranchLink: link}
	}

	base, err := r.client.GetBranch(ctx, opts.BaseBranch)
	if err != nil {
		r.logger.Warn("base head fetch failed, keeping branch",
			"base", opts.BaseBranch, "error", err)
		return Result{BranchLink: link}
	}

	if branch.HeadSHA != base.HeadSHA {
		// The agent pushed commits; keep and link.
		return Result{BranchLink: link}
	}

	// No commits beyond base.
	if opts.UseCommitSigning {
		return Result{ShouldDeleteBranch: true}
	}

	status, err := r.git.Status()
	if err != nil {
		// Never silently discard potential work.
		r.logger.Warn("working-tree inspection failed, keeping branch", "error", err)
		return Result{BranchLink: link}
	}

	if strings.TrimSpace(status) == "" {
		return Result{ShouldDeleteBranch: true}
	}

	if err := r.commitAndPush(opts); err != nil {
		r.logger.Warn("auto-commit failed, keeping branch", "error", err)
		return Result{BranchLink: link}
	}
	return Result{BranchLink: link}
}

// commitAndPush stages all uncommitted changes and pushes them to the working
// branch with a run-stamped message.
func (r *Reconciler) commitAndPush(opts Options) error {
	if err := r.git.StageAll(); err != nil {
		return err
	}
	message := fmt.Sprintf("Auto-commit: agent changes from run %s", opts.RunID)
	if err := r.git.Commit(message); err != nil {
		return err
	}
	return r.git.Push(opts.WorkingBranch)
}

// branchLink builds the web UI URL for the working branch in the dialect's
// link shape.
func branchLink(kind platform.Kind, opts Options) string {
	server := strings.TrimSuffix(opts.ServerURL, "/")
	if kind == platform.KindGitea {
		return fmt.Sprintf("%s/%s/%s/src/branch/%s", server, opts.Owner, opts.Repo, opts.WorkingBranch)
	}
	return fmt.Sprintf("%s/%s/%s/tree/%s", server, opts.Owner, opts.Repo, opts.WorkingBranch)
}
