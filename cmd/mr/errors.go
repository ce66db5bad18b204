package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/dispatch"
	"github.com/raphi011/mr/internal/selector"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1 // a repo ultimately failed, or any other error
	exitUsage   = 2 // selector or usage error
)

// exitError carries a process exit code out of a RunE.
// A nil err means the failure was already reported.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// usageError marks err as a usage error.
func usageError(err error) error {
	return &exitError{code: exitUsage, err: err}
}

// dispatchError reports the repos whose last attempt failed, one per line,
// with the exit code of that attempt. Returns nil when every repo succeeded.
func dispatchError(res dispatch.Result) error {
	code := res.ExitCode()
	if code == exitOK {
		return nil
	}
	failed := res.Failed()
	noun := "repos"
	if len(failed) == 1 {
		noun = "repo"
	}
	return &exitError{code: code, err: fmt.Errorf("%d %s failed:\n%w", len(failed), noun, res.Err())}
}

// usageArgs turns argument validation failures into usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// exitCode maps an error returned by a command to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	var se *selector.Error
	if errors.As(err, &se) {
		return exitUsage
	}
	return exitFailure
}

// reportable reports whether err has a message worth printing.
func reportable(err error) bool {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.err != nil
	}
	return err != nil
}
