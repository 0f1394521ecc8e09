// Package gitexec wraps the version-control commands the action shells out to.
package gitexec

import "os/exec"

// CommandRunner executes a system command and returns its combined output.
// Git operations go through this seam so the reconciler's decision logic can
// be tested without a working tree.
type CommandRunner interface {
	Run(name string, args ...string) ([]byte, error)
	RunInDir(dir, name string, args ...string) ([]byte, error)
}

// RealCommandRunner executes commands with os/exec.
type RealCommandRunner struct{}

func (r *RealCommandRunner) Run(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).CombinedOutput()
}

func (r *RealCommandRunner) RunInDir(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}
