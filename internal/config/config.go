package config

import (
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/mr/internal/storage"
)

//go:embed defaults.toml
var defaultsTOML string

// FileName is the name of the config file inside the mr config directory.
const FileName = "config.toml"

// Config holds the mr configuration
type Config struct {
	Info     []string           `toml:"info"`     // ordered "mr ll" columns
	Symbols  map[string]string  `toml:"symbols"`  // state -> glyph
	Colors   map[string]string  `toml:"colors"`   // situation -> color name
	Commands map[string]Command `toml:"commands"` // verb -> delegated command
	LogFile  string             `toml:"log_file"` // optional rotating debug log
}

// rawConfig is used for parsing the user file so that absent keys
// can be told apart from empty ones.
type rawConfig struct {
	Info     *[]string          `toml:"info"`
	Symbols  map[string]string  `toml:"symbols"`
	Colors   map[string]string  `toml:"colors"`
	Commands map[string]Command `toml:"commands"`
	LogFile  string             `toml:"log_file"`
}

// Default returns the built-in configuration.
func Default() Config {
	var cfg Config
	if _, err := toml.Decode(defaultsTOML, &cfg); err != nil {
		panic(fmt.Sprintf("config: invalid built-in defaults: %v", err))
	}
	return cfg
}

// ValidatePath checks that the path is absolute or starts with ~
// Returns error if path is relative (like "." or "..")
func ValidatePath(path, fieldName string) error {
	if path == "" {
		return nil // Empty is allowed (means not configured)
	}
	if path[0] == '~' {
		return nil
	}
	if !filepath.IsAbs(path) {
		return fmt.Errorf("%s must be absolute or start with ~, got: %q", fieldName, path)
	}
	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) (string, error) {
	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expand ~: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	if path == "~" {
		return os.UserHomeDir()
	}
	return path, nil
}

// Path returns the path to the config file
func Path() (string, error) {
	return storage.Path(FileName)
}

// Load reads the config file from the mr config directory.
// Returns Default() if file doesn't exist (no error)
// Returns error only if file exists but is invalid
func Load() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile reads config from path and merges it over the defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(string(data))
}

// Parse merges the given TOML document over the defaults and validates the result.
// Symbols and colors override per key, commands override per verb, and
// info replaces the default list when present.
func Parse(content string) (Config, error) {
	var raw rawConfig
	if _, err := toml.Decode(content, &raw); err != nil {
		return Default(), fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := Default()
	if raw.Info != nil {
		cfg.Info = *raw.Info
	}
	maps.Copy(cfg.Symbols, raw.Symbols)
	maps.Copy(cfg.Colors, raw.Colors)
	maps.Copy(cfg.Commands, raw.Commands)
	cfg.LogFile = raw.LogFile

	if err := cfg.validate(); err != nil {
		return Default(), err
	}

	if cfg.LogFile != "" {
		expanded, err := expandPath(cfg.LogFile)
		if err != nil {
			return Default(), fmt.Errorf("expand log_file: %w", err)
		}
		cfg.LogFile = expanded
	}

	return cfg, nil
}

// Symbol returns the glyph for a state, or "" when none is configured.
func (c *Config) Symbol(state string) string {
	return c.Symbols[state]
}

// DefaultConfig returns the commented config written by "mr config init".
func DefaultConfig() string {
	return defaultConfig
}

const defaultConfig = `# mr configuration

# Columns shown by "mr ll", in order.
# Available: branch, branch_name, commit_msg, commit_time, path
# info = ["branch", "commit_msg", "commit_time"]

# Optional debug log, rotated by size. Must be absolute or start with ~
# log_file = "~/.cache/mr/debug.log"

# Status symbols
# [symbols]
# dirty = "*"
# staged = "+"
# untracked = "?"
# stashed = "$"
# local_ahead = "↑"
# remote_ahead = "↓"
# diverged = "⇕"
# in_sync = ""
# no_remote = "∅"

# Branch colors per local/remote situation.
# Available: black, red, green, yellow, blue, purple, cyan, white
# and bold variants b_black ... b_white
# [colors]
# no_remote = "white"
# in_sync = "green"
# diverged = "red"
# local_ahead = "purple"
# remote_ahead = "yellow"

# Delegated commands. Each entry becomes "mr NAME [repo|group...]".
# Commands starting with "git" get each repo's flags spliced in after "git".
#
# [commands.unstage]
# cmd = "git reset HEAD --"
# help = "unstage all files"
#
# [commands.ci]
# cmd = "git commit"
# help = "commit staged changes"
# disable_async = true   # always run attached to the terminal, one repo at a time
#
# [commands.fetch]
# cmd = "git fetch"
# help = "fetch remote update"
# allow_all = true       # no selector means all repos (or the context group)
#
# [commands.loc]
# cmd = "git ls-files | xargs wc -l | tail -1"
# help = "count lines of tracked files"
# shell = true           # run through sh -c
`

// Init creates a default config file in the mr config directory.
// If force is true, overwrites existing file
// Returns the path to the created file
func Init(force bool) (string, error) {
	path, err := Path()
	if err != nil {
		return "", err
	}

	if !force {
		if _, err := os.Stat(path); err == nil {
			return "", errors.New("config file already exists: " + path)
		}
	}

	if err := storage.WriteAtomic(path, []byte(defaultConfig)); err != nil {
		return "", err
	}

	return path, nil
}
