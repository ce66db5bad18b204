// Package cmd provides helpers for executing shell commands with proper error handling.
package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/raphi011/mr/internal/log"
)

// RunContext executes a command in dir and returns stderr in the error message if it fails.
func RunContext(ctx context.Context, dir, name string, args ...string) error {
	_, err := OutputContext(ctx, dir, name, args...)
	return err
}

// OutputContext executes a command in dir and returns stdout, with stderr in error if it fails.
func OutputContext(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stderr bytes.Buffer
	c.Stderr = &stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	output, err := c.Output()
	done(time.Since(start))

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if errMsg := strings.TrimSpace(stderr.String()); errMsg != "" {
			return nil, fmt.Errorf("%s", errMsg)
		}
		return nil, err
	}
	return output, nil
}

// CaptureContext executes a command in dir and returns its exit code and stdout.
// The error is non-nil only when the process could not be started or was
// interrupted; a non-zero exit is reported through the code.
func CaptureContext(ctx context.Context, dir, name string, args ...string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return -1, nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout bytes.Buffer
	c.Stdout = &stdout

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	code, err := exitResult(ctx, err)
	if err != nil {
		return code, nil, err
	}
	return code, stdout.Bytes(), nil
}

// ExitCode extracts the exit code from an error returned by [exec.Cmd.Run].
// Returns false if the error does not describe a process exit.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), true
	}
	return 0, false
}

// Streams are the standard streams handed to an attached child process.
type Streams struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// AttachedContext runs a command in dir connected to the given streams and
// returns its exit code. Like CaptureContext, a non-zero exit is not an error.
func AttachedContext(ctx context.Context, dir string, s Streams, name string, args ...string) (int, error) {
	if err := ctx.Err(); err != nil {
		return -1, err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	c.Stdin, c.Stdout, c.Stderr = s.Stdin, s.Stdout, s.Stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	return exitResult(ctx, err)
}

// CombinedContext runs a command in dir with stdin closed and returns its
// exit code with stdout and stderr captured separately.
func CombinedContext(ctx context.Context, dir, name string, args ...string) (int, []byte, []byte, error) {
	if err := ctx.Err(); err != nil {
		return -1, nil, nil, err
	}

	c := exec.CommandContext(ctx, name, args...)
	c.Dir = dir
	var stdout, stderr bytes.Buffer
	c.Stdout, c.Stderr = &stdout, &stderr

	done := log.FromContext(ctx).Command(dir, name, args...)
	start := time.Now()
	err := c.Run()
	done(time.Since(start))

	code, err := exitResult(ctx, err)
	if err != nil {
		return code, nil, nil, err
	}
	return code, stdout.Bytes(), stderr.Bytes(), nil
}

// exitResult converts the error of [exec.Cmd.Run] into an exit code.
func exitResult(ctx context.Context, err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, ctxErr
	}
	if code, ok := ExitCode(err); ok {
		return code, nil
	}
	return -1, err
}
