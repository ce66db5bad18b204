package config

import (
	"slices"
	"strings"
)

// Command is a delegated command exposed as "mr NAME".
type Command struct {
	Cmd          string `toml:"cmd"`
	Help         string `toml:"help"`
	AllowAll     bool   `toml:"allow_all"`     // empty selector means every repo
	DisableAsync bool   `toml:"disable_async"` // always run sequentially, attached
	Shell        bool   `toml:"shell"`         // run through sh -c
}

// Fields splits the command line into argv.
func (c Command) Fields() []string {
	return strings.Fields(c.Cmd)
}

// IsGit reports whether the command invokes git directly.
func (c Command) IsGit() bool {
	f := c.Fields()
	return !c.Shell && len(f) > 0 && f[0] == "git"
}

// HelpText returns the help string, falling back to the command line.
func (c Command) HelpText() string {
	if c.Help != "" {
		return c.Help
	}
	return c.Cmd
}

// CommandNames returns the configured command names, sorted.
func (c *Config) CommandNames() []string {
	names := make([]string, 0, len(c.Commands))
	for name := range c.Commands {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// BlacklistedVerbs returns the verbs that must never run concurrently.
// Both the command name and the git subcommand it wraps are included,
// so "ci" and "commit" are blacklisted when ci is "git commit".
func (c *Config) BlacklistedVerbs() []string {
	var verbs []string
	for _, name := range c.CommandNames() {
		command := c.Commands[name]
		if !command.DisableAsync {
			continue
		}
		verbs = append(verbs, name)
		if f := command.Fields(); command.IsGit() && len(f) > 1 && !slices.Contains(verbs, f[1]) {
			verbs = append(verbs, f[1])
		}
	}
	return verbs
}
