package gitexec

import (
	"fmt"
	"reflect"
	"testing"
)

func TestGitStatus(t *testing.T) {
	runner := &mockCommandRunner{
		runFunc: func(name string, args ...string) ([]byte, error) {
			return []byte(" M main.go\n?? new.go\n"), nil
		},
	}
	git := NewGit(runner, "")

	status, err := git.Status()
	if err != nil {
		t.Fatal(err)
	}
	if status != " M main.go\n?? new.go" {
		t.Errorf("status = %q", status)
	}
	if len(runner.calls) != 1 {
		t.Fatalf("calls = %v", runner.calls)
	}
	want := []string{"status", "--porcelain"}
	if !reflect.DeepEqual(runner.calls[0].args, want) {
		t.Errorf("args = %v, want %v", runner.calls[0].args, want)
	}
}

func TestGitStatusError(t *testing.T) {
	runner := &mockCommandRunner{
		runFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("fatal: not a git repository"), fmt.Errorf("exit status 128")
		},
	}
	git := NewGit(runner, "")

	if _, err := git.Status(); err == nil {
		t.Error("expected error")
	}
}

func TestGitRunsInDir(t *testing.T) {
	runner := &mockCommandRunner{}
	git := NewGit(runner, "/work/checkout")

	if err := git.StageAll(); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 1 || runner.calls[0].dir != "/work/checkout" {
		t.Errorf("calls = %+v", runner.calls)
	}
}

func TestGitCommitAndPush(t *testing.T) {
	runner := &mockCommandRunner{}
	git := NewGit(runner, "")

	if err := git.Commit("checkpoint"); err != nil {
		t.Fatal(err)
	}
	if err := git.Push("claude/issue-1"); err != nil {
		t.Fatal(err)
	}

	if len(runner.calls) != 2 {
		t.Fatalf("calls = %v", runner.calls)
	}
	wantCommit := []string{"commit", "-m", "checkpoint"}
	if !reflect.DeepEqual(runner.calls[0].args, wantCommit) {
		t.Errorf("commit args = %v", runner.calls[0].args)
	}
	wantPush := []string{"push", "origin", "HEAD:claude/issue-1"}
	if !reflect.DeepEqual(runner.calls[1].args, wantPush) {
		t.Errorf("push args = %v", runner.calls[1].args)
	}
}

func TestGitHashObject(t *testing.T) {
	runner := &mockCommandRunner{
		runFunc: func(name string, args ...string) ([]byte, error) {
			return []byte("0123456789abcdef0123456789abcdef01234567\n"), nil
		},
	}
	git := NewGit(runner, "")

	sha, err := git.HashObject("main.go")
	if err != nil {
		t.Fatal(err)
	}
	if sha != "0123456789abcdef0123456789abcdef01234567" {
		t.Errorf("sha = %q", sha)
	}
}

func TestConfigure(t *testing.T) {
	runner := &mockCommandRunner{}
	if err := Configure(runner, "claude-bot", "bot@example.com"); err != nil {
		t.Fatal(err)
	}
	if len(runner.calls) != 2 {
		t.Fatalf("calls = %v", runner.calls)
	}
	if runner.calls[0].args[2] != "user.name" || runner.calls[1].args[2] != "user.email" {
		t.Errorf("calls = %+v", runner.calls)
	}
}
