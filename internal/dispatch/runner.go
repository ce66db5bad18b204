package dispatch

import (
	"context"
	"io"

	"github.com/raphi011/mr/internal/cmd"
)

// Runner starts child processes. Both methods report a non-zero exit through
// the code; the error is set only when the process could not run.
type Runner interface {
	// Attached runs argv in dir connected to the terminal.
	Attached(ctx context.Context, dir string, argv []string) (int, error)
	// Captured runs argv in dir with stdin closed and output captured.
	Captured(ctx context.Context, dir string, argv []string) (code int, stdout, stderr []byte, err error)
}

// ExecRunner runs processes with os/exec.
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Attached implements Runner.
func (r ExecRunner) Attached(ctx context.Context, dir string, argv []string) (int, error) {
	s := cmd.Streams{Stdin: r.Stdin, Stdout: r.Stdout, Stderr: r.Stderr}
	return cmd.AttachedContext(ctx, dir, s, argv[0], argv[1:]...)
}

// Captured implements Runner.
func (r ExecRunner) Captured(ctx context.Context, dir string, argv []string) (int, []byte, []byte, error) {
	return cmd.CombinedContext(ctx, dir, argv[0], argv[1:]...)
}
