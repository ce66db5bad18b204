// Package config handles loading, validation and editing of mr configuration.
//
// Configuration is read from config.toml in the mr config directory
// ($MR_HOME, $XDG_CONFIG_HOME/mr or ~/.config/mr) and merged over the
// built-in defaults.
//
// # Key Settings
//
//   - info: ordered columns for "mr ll" (branch, branch_name, commit_msg, commit_time, path)
//   - log_file: optional rotating debug log (must be absolute or ~/...)
//   - [symbols]: glyphs for dirty, staged, untracked, stashed and each relation
//   - [colors]: branch color per relation (no_remote, in_sync, diverged, local_ahead, remote_ahead)
//
// # Delegated Commands
//
// Each [commands.NAME] section becomes an "mr NAME" subcommand:
//
//	[commands.ci]
//	cmd = "git commit"
//	help = "commit staged changes"
//	disable_async = true  # never run concurrently
//
// Commands with allow_all run on every repo when no selector is given.
// Commands with shell run through sh -c instead of being split into argv.
package config
