package registry

import (
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/log"
)

// Snapshot is an immutable view of the registry for one invocation.
// Group members that do not name a repo in the snapshot are dropped.
type Snapshot struct {
	repos   map[string]Repo
	groups  map[string]Group
	context string
	setting string
}

// NewSnapshot builds a snapshot. active is the context group (already
// resolved if it was "auto"); it is ignored if no such group exists.
func NewSnapshot(repos []Repo, groups []Group, active string) *Snapshot {
	s := &Snapshot{
		repos:  make(map[string]Repo, len(repos)),
		groups: make(map[string]Group, len(groups)),
	}
	for _, r := range repos {
		r.Flags = slices.Clone(r.Flags)
		s.repos[r.Name] = r
	}
	for _, g := range groups {
		members := make([]string, 0, len(g.Repos))
		for _, name := range g.Repos {
			if _, ok := s.repos[name]; ok {
				members = append(members, name)
			}
		}
		slices.Sort(members)
		g.Repos = slices.Compact(members)
		s.groups[g.Name] = g
	}
	if _, ok := s.groups[active]; ok {
		s.context = active
	}
	return s
}

// Snapshot builds the view of the registry seen from cwd.
// Inside a main repo only repos below that main repo are visible.
func (r *Registry) Snapshot(cwd string) *Snapshot {
	repos := r.Repos
	if main, ok := r.enclosingMain(cwd); ok {
		repos = slices.DeleteFunc(slices.Clone(r.Repos), func(repo Repo) bool {
			return !isWithin(repo.Path, main.Path)
		})
	}
	active, _ := r.ResolveContext(cwd)
	s := NewSnapshot(repos, r.Groups, active)
	s.setting = r.Context
	return s
}

// Prune returns a snapshot without the repos whose path is no longer a git
// repository, bare ones included. Their group memberships go with them.
// The registry itself is left alone so "mr rm" can still drop them.
func (s *Snapshot) Prune(ctx context.Context) *Snapshot {
	repos := make([]Repo, 0, len(s.repos))
	for _, name := range s.RepoNames() {
		r := s.repos[name]
		if !git.IsRepo(ctx, r.Path, git.RepoCheck{Bare: true}) {
			log.FromContext(ctx).Debug("skipping missing repo", "repo", r.Name, "path", r.Path)
			continue
		}
		repos = append(repos, r)
	}
	if len(repos) == len(s.repos) {
		return s
	}
	pruned := NewSnapshot(repos, slices.Collect(maps.Values(s.groups)), s.context)
	pruned.setting = s.setting
	return pruned
}

// enclosingMain returns the innermost main repo containing cwd.
func (r *Registry) enclosingMain(cwd string) (Repo, bool) {
	var best Repo
	found := false
	for _, repo := range r.Repos {
		if !repo.IsMain() || !isWithin(cwd, repo.Path) {
			continue
		}
		if !found || len(repo.Path) > len(best.Path) {
			best, found = repo, true
		}
	}
	return best, found
}

// Repo returns the repo with the given name.
func (s *Snapshot) Repo(name string) (Repo, bool) {
	r, ok := s.repos[name]
	return r, ok
}

// Group returns the group with the given name.
func (s *Snapshot) Group(name string) (Group, bool) {
	g, ok := s.groups[name]
	return g, ok
}

// IsRepo reports whether name is a repo.
func (s *Snapshot) IsRepo(name string) bool {
	_, ok := s.repos[name]
	return ok
}

// IsGroup reports whether name is a group.
func (s *Snapshot) IsGroup(name string) bool {
	_, ok := s.groups[name]
	return ok
}

// Repos returns all repos sorted by name.
func (s *Snapshot) Repos() []Repo {
	return s.sortedRepos(s.RepoNames())
}

// Groups returns all groups sorted by name.
func (s *Snapshot) Groups() []Group {
	names := s.GroupNames()
	groups := make([]Group, len(names))
	for i, name := range names {
		groups[i] = s.groups[name]
	}
	return groups
}

// Members returns the repos of a group sorted by name.
func (s *Snapshot) Members(group string) []Repo {
	return s.sortedRepos(s.groups[group].Repos)
}

// RepoNames returns all repo names, sorted.
func (s *Snapshot) RepoNames() []string {
	return slices.Sorted(maps.Keys(s.repos))
}

// GroupNames returns all group names, sorted.
func (s *Snapshot) GroupNames() []string {
	return slices.Sorted(maps.Keys(s.groups))
}

// Context returns the active context group, if any.
func (s *Snapshot) Context() (string, bool) {
	return s.context, s.context != ""
}

// ContextSetting returns the stored context value: "", "auto" or a group name.
func (s *Snapshot) ContextSetting() string {
	return s.setting
}

func (s *Snapshot) sortedRepos(names []string) []Repo {
	repos := make([]Repo, 0, len(names))
	for _, name := range names {
		if r, ok := s.repos[name]; ok {
			repos = append(repos, r)
		}
	}
	slices.SortFunc(repos, func(a, b Repo) int { return strings.Compare(a.Name, b.Name) })
	return repos
}
