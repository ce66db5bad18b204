package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrGitNotFound indicates git is not installed or not in PATH
var ErrGitNotFound = fmt.Errorf("git not found: please install git (https://git-scm.com)")

// CheckGit verifies that git is available in PATH
func CheckGit() error {
	_, err := exec.LookPath("git")
	if err != nil {
		return ErrGitNotFound
	}
	return nil
}

// RepoCheck controls which directories IsRepo accepts.
type RepoCheck struct {
	Bare          bool // accept bare repositories
	SkipSubmodule bool // reject directories whose .git is a file (submodules, worktrees)
}

// IsRepo reports whether path is the top of a git repository.
// A .git directory always qualifies; a .git file qualifies unless SkipSubmodule is set.
// Bare repositories are only detected when Bare is set.
func IsRepo(ctx context.Context, path string, check RepoCheck) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	if err == nil {
		if info.IsDir() {
			return true
		}
		return info.Mode().IsRegular() && !check.SkipSubmodule
	}
	if !check.Bare {
		return false
	}
	out, err := outputGit(ctx, Target{Path: path}, "rev-parse", "--is-bare-repository")
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// TopLevel returns the root of the working tree containing dir.
func TopLevel(ctx context.Context, dir string) (string, error) {
	out, err := outputGit(ctx, Target{Path: dir}, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", fmt.Errorf("not in a git repository: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}
