//go:build integration

package main

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/output"
)

// resolvePath resolves symlinks in a path.
// This is needed on macOS where /var is a symlink to /private/var.
func resolvePath(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("failed to resolve path %s: %v", path, err)
	}
	return resolved
}

// setupTestRepo creates a git repo on branch main with one commit in dir/name.
// Returns the absolute path to the created repo.
func setupTestRepo(t *testing.T, dir, name string) string {
	t.Helper()

	repoPath := filepath.Join(resolvePath(t, dir), name)
	if err := os.MkdirAll(repoPath, 0755); err != nil {
		t.Fatalf("failed to create repo dir: %v", err)
	}

	runIn(t, repoPath, "git", "init")
	runIn(t, repoPath, "git", "symbolic-ref", "HEAD", "refs/heads/main")
	runIn(t, repoPath, "git", "config", "user.email", "test@test.com")
	runIn(t, repoPath, "git", "config", "user.name", "Test User")
	runIn(t, repoPath, "git", "config", "commit.gpgsign", "false")

	if err := os.WriteFile(filepath.Join(repoPath, "README.md"), []byte("# "+name+"\n"), 0644); err != nil {
		t.Fatalf("failed to write README: %v", err)
	}
	runIn(t, repoPath, "git", "add", "README.md")
	runIn(t, repoPath, "git", "commit", "-m", "Initial commit")
	runIn(t, repoPath, "git", "remote", "add", "origin", "https://example.com/test/"+name+".git")

	return repoPath
}

func runIn(t *testing.T, dir string, name string, args ...string) {
	t.Helper()
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("failed to run %s %v: %v\n%s", name, args, err, out)
	}
}

// setupHome points the mr config directory at a fresh temp dir.
func setupHome(t *testing.T) string {
	t.Helper()
	home := resolvePath(t, t.TempDir())
	t.Setenv("MR_HOME", home)
	return home
}

// runMr runs mr with args from workDir and returns stdout and the exit code.
func runMr(t *testing.T, workDir string, args ...string) (string, int) {
	t.Helper()
	out, err := runMrErr(t, workDir, args...)
	return out, exitCode(err)
}

// runMrErr is runMr returning the command error instead of the exit code.
func runMrErr(t *testing.T, workDir string, args ...string) (string, error) {
	t.Helper()

	cfg := config.Default()
	var out bytes.Buffer

	ctx := config.WithConfig(context.Background(), &cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = output.WithPrinter(ctx, &out)

	rootCmd := newRootCmd(&cfg)
	rootCmd.SetArgs(append([]string{"--quiet"}, args...))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		t.Logf("mr %v: %v", args, err)
	}
	return out.String(), err
}
