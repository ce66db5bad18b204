package registry

import (
	"errors"
	"fmt"
	"slices"
)

// validateGroupName rejects reserved names and names taken by repos.
func (r *Registry) validateGroupName(name string) error {
	switch name {
	case "":
		return errors.New("group name must not be empty")
	case ContextNone, ContextAuto:
		return fmt.Errorf("%q is reserved and cannot be a group name", name)
	}
	if r.repoIndex(name) >= 0 {
		return fmt.Errorf("%q is already a repo name", name)
	}
	return nil
}

// AddToGroup adds repos to a group, creating it if missing.
// A non-empty path replaces the group path.
func (r *Registry) AddToGroup(group string, repos []string, path string) error {
	if err := r.validateGroupName(group); err != nil {
		return err
	}
	for _, name := range repos {
		if r.repoIndex(name) < 0 {
			return fmt.Errorf("repo %q: %w", name, ErrNotFound)
		}
	}

	i := r.groupIndex(group)
	if i < 0 {
		r.Groups = append(r.Groups, Group{Name: group})
		i = len(r.Groups) - 1
	}
	g := &r.Groups[i]
	g.Repos = union(g.Repos, repos)
	if path != "" {
		g.Path = path
	}
	return nil
}

// RemoveFromGroup removes repos from a group. The group is kept even if it becomes empty.
func (r *Registry) RemoveFromGroup(group string, repos []string) error {
	g, err := r.FindGroup(group)
	if err != nil {
		return err
	}
	g.Repos = slices.DeleteFunc(g.Repos, func(n string) bool {
		return slices.Contains(repos, n)
	})
	return nil
}

// RenameGroup renames a group and follows it with the context.
func (r *Registry) RenameGroup(oldName, newName string) error {
	g, err := r.FindGroup(oldName)
	if err != nil {
		return err
	}
	if err := r.validateGroupName(newName); err != nil {
		return err
	}
	if r.groupIndex(newName) >= 0 {
		return fmt.Errorf("%q is already a group name", newName)
	}
	g.Name = newName
	if r.Context == oldName {
		r.Context = newName
	}
	return nil
}

// DeleteGroups removes groups. A context naming a deleted group is cleared.
func (r *Registry) DeleteGroups(names ...string) error {
	for _, name := range names {
		if r.groupIndex(name) < 0 {
			return fmt.Errorf("group %q: %w", name, ErrNotFound)
		}
	}
	r.Groups = slices.DeleteFunc(r.Groups, func(g Group) bool {
		return slices.Contains(names, g.Name)
	})
	if slices.Contains(names, r.Context) {
		r.Context = ""
	}
	return nil
}

// MergeGroups merges generated groups into the registry.
// Members are unioned into existing groups; groups whose name is taken by a
// repo are skipped. Returns the names of groups that were created.
func (r *Registry) MergeGroups(groups []Group) []string {
	var created []string
	for _, g := range groups {
		if r.validateGroupName(g.Name) != nil {
			continue
		}
		i := r.groupIndex(g.Name)
		if i < 0 {
			r.Groups = append(r.Groups, Group{Name: g.Name, Path: g.Path, Repos: union(nil, g.Repos)})
			created = append(created, g.Name)
			continue
		}
		existing := &r.Groups[i]
		existing.Repos = union(existing.Repos, g.Repos)
		if existing.Path == "" {
			existing.Path = g.Path
		}
	}
	return created
}

// SetContext sets the context to "none", "auto" or an existing group.
func (r *Registry) SetContext(value string) error {
	switch value {
	case ContextNone, "":
		r.Context = ""
	case ContextAuto:
		r.Context = ContextAuto
	default:
		if r.groupIndex(value) < 0 {
			return fmt.Errorf("group %q: %w", value, ErrNotFound)
		}
		r.Context = value
	}
	return nil
}

// ResolveContext returns the group the context points to for cwd.
// For "auto" this is the group whose path is the longest one containing cwd.
func (r *Registry) ResolveContext(cwd string) (string, bool) {
	switch r.Context {
	case "":
		return "", false
	case ContextAuto:
		best, bestLen := "", -1
		for _, g := range r.Groups {
			if isWithin(cwd, g.Path) && len(g.Path) > bestLen {
				best, bestLen = g.Name, len(g.Path)
			}
		}
		return best, bestLen >= 0
	default:
		return r.Context, r.groupIndex(r.Context) >= 0
	}
}

// union returns the sorted, deduplicated union of a and b.
func union(a, b []string) []string {
	out := slices.Concat(a, b)
	slices.Sort(out)
	return slices.Compact(out)
}
