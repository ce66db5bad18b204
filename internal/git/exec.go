package git

import (
	"context"

	"github.com/raphi011/mr/internal/cmd"
)

// Target identifies the repository a git command runs in.
// Flags are spliced in right after "git", before the subcommand.
type Target struct {
	Path  string
	Flags []string
}

// Args returns the git argument vector for args with the target's flags spliced in.
func (t Target) Args(args ...string) []string {
	out := make([]string, 0, len(t.Flags)+len(args))
	out = append(out, t.Flags...)
	return append(out, args...)
}

// outputGit executes a git command in the target directory, returning stdout.
func outputGit(ctx context.Context, t Target, args ...string) ([]byte, error) {
	return cmd.OutputContext(ctx, t.Path, "git", t.Args(args...)...)
}

// Capture runs a git command and returns its exit code and stdout.
// The error is non-nil only when git could not be started.
func Capture(ctx context.Context, t Target, args ...string) (int, []byte, error) {
	return cmd.CaptureContext(ctx, t.Path, "git", t.Args(args...)...)
}
