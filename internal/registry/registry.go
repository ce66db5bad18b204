// Package registry manages the repo and group registry at <config dir>/registry.json
package registry

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// Kind distinguishes normal repos from main (container) repos.
type Kind string

const (
	KindNormal Kind = ""
	KindMain   Kind = "main" // repos below it get a local view when cwd is inside
)

// Reserved context values. Neither may be used as a group name.
const (
	ContextNone = "none"
	ContextAuto = "auto"
)

// Repo represents a registered git repository
type Repo struct {
	Name  string   `json:"name"`            // Unique key, also used as selector
	Path  string   `json:"path"`            // Absolute path to repo
	Flags []string `json:"flags,omitempty"` // Spliced into every git invocation after "git"
	Kind  Kind     `json:"kind,omitempty"`
}

// IsMain reports whether the repo is a main repo.
func (r Repo) IsMain() bool {
	return r.Kind == KindMain
}

// Group is a named set of repos.
type Group struct {
	Name  string   `json:"name"`
	Path  string   `json:"path,omitempty"` // Used by the auto context
	Repos []string `json:"repos"`
}

// Registry is the persisted document: all repos, groups and the context setting.
type Registry struct {
	Repos   []Repo  `json:"repos"`
	Groups  []Group `json:"groups"`
	Context string  `json:"context,omitempty"` // "", "auto" or a group name
}

// ErrNotFound is wrapped by lookups of unknown repo or group names.
var ErrNotFound = errors.New("not found")

func (r *Registry) repoIndex(name string) int {
	return slices.IndexFunc(r.Repos, func(repo Repo) bool { return repo.Name == name })
}

func (r *Registry) groupIndex(name string) int {
	return slices.IndexFunc(r.Groups, func(g Group) bool { return g.Name == name })
}

// FindRepo looks up a repo by name.
func (r *Registry) FindRepo(name string) (*Repo, error) {
	i := r.repoIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("repo %q: %w", name, ErrNotFound)
	}
	return &r.Repos[i], nil
}

// FindGroup looks up a group by name.
func (r *Registry) FindGroup(name string) (*Group, error) {
	i := r.groupIndex(name)
	if i < 0 {
		return nil, fmt.Errorf("group %q: %w", name, ErrNotFound)
	}
	return &r.Groups[i], nil
}

// RepoNames returns all repo names, sorted.
func (r *Registry) RepoNames() []string {
	names := make([]string, len(r.Repos))
	for i, repo := range r.Repos {
		names[i] = repo.Name
	}
	slices.Sort(names)
	return names
}

// names returns every repo and group name in use.
func (r *Registry) names() []string {
	names := r.RepoNames()
	for _, g := range r.Groups {
		names = append(names, g.Name)
	}
	return names
}

// Remove unregisters repos by name and drops them from every group.
// Unknown names are an error and nothing is removed.
func (r *Registry) Remove(names ...string) error {
	for _, name := range names {
		if r.repoIndex(name) < 0 {
			return fmt.Errorf("repo %q: %w", name, ErrNotFound)
		}
	}
	r.Repos = slices.DeleteFunc(r.Repos, func(repo Repo) bool {
		return slices.Contains(names, repo.Name)
	})
	for i := range r.Groups {
		r.Groups[i].Repos = slices.DeleteFunc(r.Groups[i].Repos, func(n string) bool {
			return slices.Contains(names, n)
		})
	}
	return nil
}

// Rename renames a repo and updates group membership.
func (r *Registry) Rename(oldName, newName string) error {
	repo, err := r.FindRepo(oldName)
	if err != nil {
		return err
	}
	if err := r.checkFreeName(newName); err != nil {
		return err
	}
	repo.Name = newName
	for i := range r.Groups {
		members := r.Groups[i].Repos
		if j := slices.Index(members, oldName); j >= 0 {
			members[j] = newName
			slices.Sort(members)
		}
	}
	return nil
}

// SetFlags replaces the extra git flags of a repo. Empty flags clear them.
func (r *Registry) SetFlags(name string, flags []string) error {
	repo, err := r.FindRepo(name)
	if err != nil {
		return err
	}
	if len(flags) == 0 {
		flags = nil
	}
	repo.Flags = flags
	return nil
}

// Clear removes all repos and groups and resets the context.
func (r *Registry) Clear() {
	r.Repos = nil
	r.Groups = nil
	r.Context = ""
}

// checkFreeName verifies name is not used by any repo or group.
func (r *Registry) checkFreeName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name must not be empty")
	}
	if r.repoIndex(name) >= 0 {
		return fmt.Errorf("%q is already a repo name", name)
	}
	if r.groupIndex(name) >= 0 {
		return fmt.Errorf("%q is already a group name", name)
	}
	return nil
}

// isWithin reports whether path equals dir or lies below it.
func isWithin(path, dir string) bool {
	if path == "" || dir == "" {
		return false
	}
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
