package registry

import (
	"context"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/log"
)

// MakeNames picks a registry name for each new repo path.
// The basename is used unless it collides with an existing name or with the
// basename of another new path, in which case the parent directory is
// prefixed ("parent/base"). Only one level is disambiguated. existing holds
// every repo and group name already in use.
func MakeNames(paths []string, existing []string) []string {
	counts := make(map[string]int, len(paths))
	for _, p := range paths {
		counts[filepath.Base(filepath.Clean(p))]++
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		p = filepath.Clean(p)
		base := filepath.Base(p)
		if counts[base] > 1 || slices.Contains(existing, base) {
			names[i] = filepath.Base(filepath.Dir(p)) + "/" + base
			continue
		}
		names[i] = base
	}
	return names
}

// AddOptions controls AddRepos.
type AddOptions struct {
	Check git.RepoCheck
	Roots []string // repos whose path equals a root are registered as main repos
}

// AddRepos registers the git repositories among paths.
// Paths that are not repositories or already registered are skipped, as are
// paths whose name is still taken after prefixing the parent directory.
// Returns the repos that were added, sorted by path.
func (r *Registry) AddRepos(ctx context.Context, paths []string, opts AddOptions) ([]Repo, error) {
	known := make(map[string]bool, len(r.Repos))
	for _, repo := range r.Repos {
		known[repo.Path] = true
	}

	var fresh []string
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		if known[abs] || slices.Contains(fresh, abs) {
			continue
		}
		if git.IsRepo(ctx, abs, opts.Check) {
			fresh = append(fresh, abs)
		}
	}
	slices.Sort(fresh)

	roots := make([]string, 0, len(opts.Roots))
	for _, root := range opts.Roots {
		if abs, err := filepath.Abs(root); err == nil {
			roots = append(roots, abs)
		}
	}

	taken := r.names()
	names := MakeNames(fresh, taken)
	added := make([]Repo, 0, len(fresh))
	for i, p := range fresh {
		if slices.Contains(taken, names[i]) {
			log.FromContext(ctx).Debug("skipping repo, name in use", "name", names[i], "path", p)
			continue
		}
		taken = append(taken, names[i])
		repo := Repo{Name: names[i], Path: p}
		if slices.Contains(roots, p) {
			repo.Kind = KindMain
		}
		added = append(added, repo)
	}
	r.Repos = append(r.Repos, added...)
	return added, nil
}

// AutoGroup derives groups from the folder structure below roots.
// For root /a/b and repo /a/b/c/d/r the repo joins groups "b", "b-c" and
// "b-c-d", whose paths are /a/b, /a/b/c and /a/b/c/d.
// Each repo is assigned using the first root that contains it.
func AutoGroup(repos []Repo, roots []string) []Group {
	byName := map[string]*Group{}
	for _, repo := range repos {
		root, ok := containingRoot(repo.Path, roots)
		if !ok {
			continue
		}
		rel, err := filepath.Rel(root, repo.Path)
		if err != nil {
			continue
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		parts = parts[:len(parts)-1] // drop the repo's own directory

		name, dir := filepath.Base(root), root
		for i := 0; ; i++ {
			g, ok := byName[name]
			if !ok {
				g = &Group{Name: name, Path: dir}
				byName[name] = g
			}
			g.Repos = append(g.Repos, repo.Name)
			if i >= len(parts) {
				break
			}
			name += "-" + parts[i]
			dir = filepath.Join(dir, parts[i])
		}
	}

	groups := make([]Group, 0, len(byName))
	for _, g := range byName {
		slices.Sort(g.Repos)
		groups = append(groups, *g)
	}
	slices.SortFunc(groups, func(a, b Group) int { return strings.Compare(a.Name, b.Name) })
	return groups
}

func containingRoot(path string, roots []string) (string, bool) {
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			continue
		}
		if isWithin(path, abs) {
			return abs, true
		}
	}
	return "", false
}

// FindDirs returns root and every directory below it, skipping .git directories.
// Unreadable directories are skipped. visit, if set, is called for each
// directory as it is found.
func FindDirs(root string, visit func(dir string)) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == abs {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return fs.SkipDir
		}
		dirs = append(dirs, path)
		if visit != nil {
			visit(path)
		}
		return nil
	})
	return dirs, err
}
