package gitexec

import (
	"fmt"
	"strings"
)

// Executor is the narrow surface the branch reconciler drives. Keeping it this
// small lets the decision logic be tested without a real working tree.
type Executor interface {
	// Status returns the porcelain status of the working tree; an empty result
	// means the tree is clean.
	Status() (string, error)

	// StageAll stages every change in the working tree.
	StageAll() error

	// Commit records the staged changes with the given message.
	Commit(message string) error

	// Push pushes HEAD to the named remote branch.
	Push(branch string) error
}

// Git is the production Executor backed by a CommandRunner.
type Git struct {
	runner CommandRunner
	dir    string
}

// NewGit creates an Executor that runs git in dir. An empty dir means the
// current working directory.
func NewGit(runner CommandRunner, dir string) *Git {
	if runner == nil {
		runner = &RealCommandRunner{}
	}
	return &Git{runner: runner, dir: dir}
}

func (g *Git) run(args ...string) ([]byte, error) {
	if g.dir != "" {
		return g.runner.RunInDir(g.dir, "git", args...)
	}
	return g.runner.Run("git", args...)
}

// Status returns the porcelain working-tree status.
func (g *Git) Status() (string, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return "", fmt.Errorf("git status failed: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// StageAll stages all working-tree changes.
func (g *Git) StageAll() error {
	out, err := g.run("add", "-A")
	if err != nil {
		return fmt.Errorf("git add failed: %w, output: %s", err, string(out))
	}
	return nil
}

// Commit records staged changes.
func (g *Git) Commit(message string) error {
	out, err := g.run("commit", "-m", message)
	if err != nil {
		return fmt.Errorf("git commit failed: %w, output: %s", err, string(out))
	}
	return nil
}

// Push pushes HEAD to the named branch on origin.
func (g *Git) Push(branch string) error {
	out, err := g.run("push", "origin", "HEAD:"+branch)
	if err != nil {
		return fmt.Errorf("git push failed: %w, output: %s", err, string(out))
	}
	return nil
}

// HashObject computes the git blob SHA of a file's current on-disk bytes.
func (g *Git) HashObject(path string) (string, error) {
	out, err := g.run("hash-object", path)
	if err != nil {
		return "", fmt.Errorf("git hash-object failed: %w, output: %s", err, string(out))
	}
	return strings.TrimSpace(string(out)), nil
}

// Configure sets the git identity used for generated commits.
func Configure(runner CommandRunner, botName, botEmail string) error {
	if runner == nil {
		runner = &RealCommandRunner{}
	}
	if out, err := runner.Run("git", "config", "--global", "user.name", botName); err != nil {
		return fmt.Errorf("failed to set git user.name: %w, output: %s", err, string(out))
	}
	if out, err := runner.Run("git", "config", "--global", "user.email", botEmail); err != nil {
		return fmt.Errorf("failed to set git user.email: %w, output: %s", err, string(out))
	}
	return nil
}
