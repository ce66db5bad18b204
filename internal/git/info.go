package git

import (
	"context"
	"fmt"
	"strings"
)

// Head returns the checked out branch name, or the exact tag at HEAD when detached.
func Head(ctx context.Context, t Target) (string, error) {
	out, err := outputGit(ctx, t, "symbolic-ref", "-q", "--short", "HEAD")
	if err == nil {
		if branch := strings.TrimSpace(string(out)); branch != "" {
			return branch, nil
		}
	}
	out, err = outputGit(ctx, t, "describe", "--tags", "--exact-match")
	if err != nil {
		return "", fmt.Errorf("failed to get head: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitMsg returns the subject of the HEAD commit.
func CommitMsg(ctx context.Context, t Target) (string, error) {
	out, err := outputGit(ctx, t, "show-branch", "--no-name", "HEAD")
	if err != nil {
		return "", fmt.Errorf("failed to get commit message: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// CommitTime returns the relative commit date of HEAD, e.g. "3 days ago".
func CommitTime(ctx context.Context, t Target) (string, error) {
	out, err := outputGit(ctx, t, "log", "-1", "--format=%cd", "--date=relative")
	if err != nil {
		return "", fmt.Errorf("failed to get commit time: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

// RemoteURL returns the URL of the first configured remote.
func RemoteURL(ctx context.Context, t Target) (string, error) {
	out, err := outputGit(ctx, t, "remote", "-v")
	if err != nil {
		return "", fmt.Errorf("failed to list remotes: %w", err)
	}
	return parseRemoteURL(string(out))
}

// parseRemoteURL extracts the URL from the first line of "git remote -v".
func parseRemoteURL(out string) (string, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("no remote configured")
	}
	return fields[1], nil
}
