package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/raphi011/mr/internal/storage"
)

// SetColor persists a color for a situation in the user config file.
func SetColor(situation, color string) error {
	if err := ValidateColor(situation, color); err != nil {
		return err
	}
	return editFile(func(doc map[string]any) {
		colors, _ := doc["colors"].(map[string]any)
		if colors == nil {
			colors = map[string]any{}
		}
		colors[situation] = color
		doc["colors"] = colors
	})
}

// ResetColors removes all user color overrides.
func ResetColors() error {
	return editFile(func(doc map[string]any) {
		delete(doc, "colors")
	})
}

// SetInfo persists the ordered list of "mr ll" columns.
func SetInfo(items []string) error {
	for _, item := range items {
		if err := ValidateInfoItem(item); err != nil {
			return err
		}
	}
	return editFile(func(doc map[string]any) {
		doc["info"] = items
	})
}

// editFile decodes the user config into a generic document, applies fn and
// writes it back. Comments in the file are not preserved.
func editFile(fn func(doc map[string]any)) error {
	path, err := Path()
	if err != nil {
		return err
	}

	doc := map[string]any{}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if _, err := toml.Decode(string(data), &doc); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("failed to read config file: %w", err)
	}

	fn(doc)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if _, err := Parse(buf.String()); err != nil {
		return err
	}
	return storage.WriteAtomic(path, buf.Bytes())
}
