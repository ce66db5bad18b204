// Package cmd provides helpers for executing shell commands with proper error handling.
//
// The helpers wrap [os/exec.Cmd] to capture stderr and include it in error
// messages, and to report exit codes for probes whose exit status is the answer.
//
// # Usage
//
//	if err := cmd.RunContext(ctx, repoPath, "git", "fetch"); err != nil {
//	    // err contains stderr output if available
//	    return fmt.Errorf("fetch: %w", err)
//	}
//
//	// Probes that answer through the exit code:
//	code, _, err := cmd.CaptureContext(ctx, repoPath, "git", "diff", "--quiet")
//
// Every execution is traced through the context logger when verbose mode is on.
//
// # Design Notes
//
// The mr tool shells out to the git CLI rather than using Go libraries.
// This ensures compatibility with user configurations (SSH keys, credential
// helpers, aliases, per-repo flags).
package cmd
