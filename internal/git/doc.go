// Package git provides git operations via shell commands.
//
// All operations call the git CLI through [os/exec] rather than a Go git
// library, so user configuration (credential helpers, aliases, hooks) applies.
// Every call runs with the repository path as working directory and the
// repository's extra flags spliced in right after "git" (see [Target]).
//
// # Queries
//
//   - [Head]: branch name, or exact tag when detached
//   - [CommitMsg], [CommitTime]: HEAD commit subject and relative date
//   - [RemoteURL]: first configured remote URL
//
// # Raw Invocation
//
//   - [Capture]: reports the exit code instead of an error, for probes
//     where the exit code carries the answer
//   - [IsRepo], [TopLevel]: repository detection
package git
