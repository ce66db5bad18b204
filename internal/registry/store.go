package registry

import (
	"errors"
	"fmt"
	"os"

	"github.com/raphi011/mr/internal/storage"
)

// FileName is the registry file inside the mr config directory.
const FileName = "registry.json"

// DefaultPath returns the path to the registry file.
func DefaultPath() (string, error) {
	return storage.Path(FileName)
}

// Store loads and persists the registry at a fixed path.
type Store struct {
	path string
	reg  Registry
}

// Open loads the registry at path. A missing file yields an empty registry.
func Open(path string) (*Store, error) {
	s := &Store{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the registry file path.
func (s *Store) Path() string {
	return s.path
}

// Reload re-reads the registry file, discarding the in-memory copy.
func (s *Store) Reload() error {
	reg, err := load(s.path)
	if err != nil {
		return err
	}
	s.reg = reg
	return nil
}

// Snapshot returns an immutable view of the loaded registry seen from cwd.
func (s *Store) Snapshot(cwd string) *Snapshot {
	return s.reg.Snapshot(cwd)
}

// Registry returns the loaded registry document.
func (s *Store) Registry() Registry {
	return s.reg
}

// Update applies fn to the latest registry on disk and saves the result.
// The file lock is held from load to save, so concurrent invocations
// never lose each other's changes. If fn fails nothing is written.
func (s *Store) Update(fn func(*Registry) error) error {
	return storage.WithLock(s.path, func() error {
		reg, err := load(s.path)
		if err != nil {
			return err
		}
		if err := fn(&reg); err != nil {
			return err
		}
		if err := storage.SaveJSON(s.path, reg); err != nil {
			return fmt.Errorf("save registry: %w", err)
		}
		s.reg = reg
		return nil
	})
}

func load(path string) (Registry, error) {
	var reg Registry
	if err := storage.LoadJSON(path, &reg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Registry{}, nil
		}
		return Registry{}, fmt.Errorf("parse registry: %w", err)
	}
	return reg, nil
}
