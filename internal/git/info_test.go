package git

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/raphi011/mr/internal/cmd"
)

// runGit executes a git command in the target directory.
func runGit(ctx context.Context, t Target, args ...string) error {
	return cmd.RunContext(ctx, t.Path, "git", t.Args(args...)...)
}

// resolveTempDir creates a temp directory and resolves macOS symlinks.
func resolveTempDir(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	resolved, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("failed to resolve symlinks for %s: %v", tmpDir, err)
	}
	return resolved
}

// configureTestRepo sets git user config and disables GPG signing.
func configureTestRepo(t *testing.T, repoPath string) {
	t.Helper()
	ctx := context.Background()
	for _, args := range [][]string{
		{"config", "user.email", "test@test.com"},
		{"config", "user.name", "Test User"},
		{"config", "commit.gpgsign", "false"},
		{"config", "tag.gpgsign", "false"},
	} {
		if err := runGit(ctx, Target{Path: repoPath}, args...); err != nil {
			t.Fatalf("failed to run git %v: %v", args, err)
		}
	}
}

// setupTestRepo creates a git repo with main branch, initial commit, and git config.
// Returns the resolved repo path.
func setupTestRepo(t *testing.T) string {
	t.Helper()
	repoPath := filepath.Join(resolveTempDir(t), "test-repo")

	ctx := context.Background()
	if err := runGit(ctx, Target{}, "init", "-b", "main", repoPath); err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}

	configureTestRepo(t, repoPath)

	readme := filepath.Join(repoPath, "README.md")
	if err := os.WriteFile(readme, []byte("# test\n"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	repo := Target{Path: repoPath}
	if err := runGit(ctx, repo, "add", "README.md"); err != nil {
		t.Fatalf("failed to add file: %v", err)
	}
	if err := runGit(ctx, repo, "commit", "-m", "Initial commit"); err != nil {
		t.Fatalf("failed to commit: %v", err)
	}

	return repoPath
}

func TestTarget_Args(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags []string
		args  []string
		want  []string
	}{
		{"no flags", nil, []string{"status"}, []string{"status"}},
		{"flags before verb", []string{"-c", "core.pager=cat"}, []string{"log", "-1"}, []string{"-c", "core.pager=cat", "log", "-1"}},
		{"flags only", []string{"--no-pager"}, nil, []string{"--no-pager"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := Target{Path: "/repo", Flags: tt.flags}
			if got := target.Args(tt.args...); !slices.Equal(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTarget_ArgsDoesNotAlias(t *testing.T) {
	t.Parallel()

	flags := make([]string, 1, 8)
	flags[0] = "--no-pager"
	target := Target{Flags: flags}

	a := target.Args("status")
	b := target.Args("log")
	if a[1] != "status" || b[1] != "log" {
		t.Errorf("Args() results alias each other: %v %v", a, b)
	}
}

func TestHead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := Target{Path: setupTestRepo(t)}

	head, err := Head(ctx, repo)
	if err != nil {
		t.Fatalf("Head() error = %v", err)
	}
	if head != "main" {
		t.Errorf("Head() = %q, want %q", head, "main")
	}

	if err := runGit(ctx, repo, "tag", "v1.0.0"); err != nil {
		t.Fatalf("tag: %v", err)
	}
	if err := runGit(ctx, repo, "checkout", "--detach", "v1.0.0"); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	head, err = Head(ctx, repo)
	if err != nil {
		t.Fatalf("Head() detached error = %v", err)
	}
	if head != "v1.0.0" {
		t.Errorf("Head() detached = %q, want %q", head, "v1.0.0")
	}
}

func TestCommitMsgAndTime(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := Target{Path: setupTestRepo(t)}

	msg, err := CommitMsg(ctx, repo)
	if err != nil {
		t.Fatalf("CommitMsg() error = %v", err)
	}
	if msg != "Initial commit" {
		t.Errorf("CommitMsg() = %q, want %q", msg, "Initial commit")
	}

	when, err := CommitTime(ctx, repo)
	if err != nil {
		t.Fatalf("CommitTime() error = %v", err)
	}
	if when == "" {
		t.Error("CommitTime() should not be empty")
	}
}

func TestRepoFlagsApplied(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := Target{Path: setupTestRepo(t), Flags: []string{"-c", "core.abbrev=12"}}

	out, err := outputGit(ctx, repo, "log", "-1", "--format=%h")
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if got := len(string(out)) - 1; got != 12 {
		t.Errorf("abbreviated hash length = %d, want 12 (flags not spliced?)", got)
	}
}

func TestRemoteURL(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := Target{Path: setupTestRepo(t)}

	if _, err := RemoteURL(ctx, repo); err == nil {
		t.Error("RemoteURL() without remotes should fail")
	}

	if err := runGit(ctx, repo, "remote", "add", "origin", "git@example.com:team/app.git"); err != nil {
		t.Fatalf("remote add: %v", err)
	}
	url, err := RemoteURL(ctx, repo)
	if err != nil {
		t.Fatalf("RemoteURL() error = %v", err)
	}
	if url != "git@example.com:team/app.git" {
		t.Errorf("RemoteURL() = %q", url)
	}
}

func TestParseRemoteURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		out     string
		want    string
		wantErr bool
	}{
		{
			name: "first remote wins",
			out:  "origin\thttps://a/x.git (fetch)\norigin\thttps://a/x.git (push)\nup\thttps://b/x.git (fetch)\n",
			want: "https://a/x.git",
		},
		{name: "empty", out: "", wantErr: true},
		{name: "malformed", out: "origin\n", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseRemoteURL(tt.out)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseRemoteURL() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("parseRemoteURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCapture(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := Target{Path: setupTestRepo(t)}

	code, _, err := Capture(ctx, repo, "diff", "--quiet")
	if err != nil || code != 0 {
		t.Fatalf("clean diff = (%d, %v), want (0, nil)", code, err)
	}

	if err := os.WriteFile(filepath.Join(repo.Path, "README.md"), []byte("changed\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, _, err = Capture(ctx, repo, "diff", "--quiet")
	if err != nil || code != 1 {
		t.Errorf("dirty diff = (%d, %v), want (1, nil)", code, err)
	}

	code, _, err = Capture(ctx, repo, "diff", "--quiet", "@{u}", "@{0}")
	if err != nil || code != 128 {
		t.Errorf("diff against missing upstream = (%d, %v), want (128, nil)", code, err)
	}
}
