package config

import (
	"fmt"
	"slices"
	"strings"
)

// Valid enum values for configuration fields.
var (
	// Situations are the local/remote relations a color can be assigned to.
	Situations = []string{"no_remote", "in_sync", "diverged", "local_ahead", "remote_ahead"}

	// InfoItems are the columns "mr ll" can display.
	InfoItems = []string{"branch", "branch_name", "commit_msg", "commit_time", "path"}

	// SymbolKeys are the states a status symbol can be assigned to.
	SymbolKeys = append([]string{"dirty", "staged", "untracked", "stashed"}, Situations...)

	// ColorNames are the supported terminal colors. The b_ variants are bold.
	ColorNames = []string{
		"black", "red", "green", "yellow", "blue", "purple", "cyan", "white",
		"b_black", "b_red", "b_green", "b_yellow", "b_blue", "b_purple", "b_cyan", "b_white",
	}
)

// ValidateColor validates a situation/color pair.
// Exported for use in CLI argument validation.
func ValidateColor(situation, color string) error {
	if err := validateRequired(situation, "situation", Situations); err != nil {
		return err
	}
	return validateRequired(color, "color", ColorNames)
}

// ValidateInfoItem validates an info item name.
func ValidateInfoItem(item string) error {
	return validateRequired(item, "info item", InfoItems)
}

// validate checks every enum-like field of a merged config.
func (c *Config) validate() error {
	for situation, color := range c.Colors {
		if err := ValidateColor(situation, color); err != nil {
			return fmt.Errorf("colors: %w", err)
		}
	}
	for key := range c.Symbols {
		if err := validateRequired(key, "symbol", SymbolKeys); err != nil {
			return fmt.Errorf("symbols: %w", err)
		}
	}
	for i, item := range c.Info {
		if err := ValidateInfoItem(item); err != nil {
			return fmt.Errorf("info[%d]: %w", i, err)
		}
	}
	for name, command := range c.Commands {
		if strings.TrimSpace(command.Cmd) == "" {
			return fmt.Errorf("commands.%s: cmd must not be empty", name)
		}
	}
	return ValidatePath(c.LogFile, "log_file")
}

// validateEnum checks that value (if non-empty) is one of the allowed values.
// Returns a formatted error mentioning the field name and allowed options.
func validateEnum(value, field string, allowed []string) error {
	if value == "" {
		return nil
	}
	if !slices.Contains(allowed, value) {
		return fmt.Errorf("invalid %s %q: must be %s", field, value, formatOptions(allowed))
	}
	return nil
}

// validateRequired is validateEnum without the empty escape hatch.
func validateRequired(value, field string, allowed []string) error {
	if value == "" {
		return fmt.Errorf("%s must not be empty", field)
	}
	return validateEnum(value, field, allowed)
}

// formatOptions formats a list of allowed values for error messages.
// E.g., ["a", "b", "c"] -> `"a", "b", or "c"`
func formatOptions(opts []string) string {
	quoted := make([]string, len(opts))
	for i, o := range opts {
		quoted[i] = fmt.Sprintf("%q", o)
	}
	if len(quoted) <= 2 {
		return strings.Join(quoted, " or ")
	}
	return strings.Join(quoted[:len(quoted)-1], ", ") + ", or " + quoted[len(quoted)-1]
}
