package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/ui/progress"
)

func newAddCmd() *cobra.Command {
	var (
		recursive     bool
		autoGroup     bool
		bare          bool
		skipSubmodule bool
		asMain        bool
		group         string
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:     "add <path>...",
		Short:   "Register repos",
		GroupID: GroupRegistry,
		Args:    usageArgs(cobra.MinimumNArgs(1)),
		Long: `Register git repositories by path.

Paths that are not git repositories or are already registered are skipped.
A repo is named after its directory; when that name is taken, the parent
directory is prefixed ("parent/name").

With -r every repo below the given directories is added. With -a groups are
also created from the folder structure: for root "src" and repo
"src/team/api" the repo joins groups "src" and "src-team".

With -m the given paths are registered as main repos: when you run mr from
inside a main repo, only the repos below it are visible. Repos below a main
repo are added too.`,
		Example: `  mr add ~/src/api ~/src/web     # Add two repos
  mr add -r ~/src               # Add every repo below ~/src
  mr add -a ~/src               # ... and group them by folder
  mr add -m ~/monorepo          # Add a main repo and its sub-repos
  mr add -g backend ~/src/api   # Add and put into the backend group
  mr add -n -r ~/src            # Show what would be added`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			walk := recursive || autoGroup || asMain
			candidates, err := addCandidates(ctx, args, walk)
			if err != nil {
				return err
			}

			opts := registry.AddOptions{
				Check: git.RepoCheck{Bare: bare, SkipSubmodule: skipSubmodule},
			}
			if asMain {
				opts.Roots = args
			}

			var (
				added   []registry.Repo
				created []string
			)
			apply := func(r *registry.Registry) error {
				added, err = r.AddRepos(ctx, candidates, opts)
				if err != nil {
					return err
				}
				if autoGroup {
					created = r.MergeGroups(registry.AutoGroup(added, args))
				}
				if group != "" && len(added) > 0 {
					names := make([]string, len(added))
					for i, repo := range added {
						names[i] = repo.Name
					}
					if err := r.AddToGroup(group, names, ""); err != nil {
						return err
					}
				}
				return nil
			}

			if dryRun {
				store, err := openStore()
				if err != nil {
					return err
				}
				reg := store.Registry()
				if err := apply(&reg); err != nil {
					return err
				}
			} else if err := updateRegistry(apply); err != nil {
				return err
			}

			verb := "Added"
			if dryRun {
				verb = "Would add"
			}
			if len(added) == 0 {
				l.Println("No new repos found")
				return nil
			}
			for _, repo := range added {
				out.Printf("%s %s (%s)\n", verb, repo.Name, repo.Path)
			}
			l.Printf("%s %d repo(s)\n", verb, len(added))
			if len(created) > 0 {
				l.Printf("Created %d group(s)\n", len(created))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Add every repo below the given directories")
	cmd.Flags().BoolVarP(&autoGroup, "auto-group", "a", false, "Recursive add that also groups repos by folder")
	cmd.Flags().BoolVarP(&bare, "bare", "b", false, "Accept bare repositories")
	cmd.Flags().BoolVarP(&skipSubmodule, "skip-submodule", "s", false, "Skip git submodules")
	cmd.Flags().BoolVarP(&asMain, "main", "m", false, "Register the given paths as main repos")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Add the new repos to this group")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be added without saving")
	cmd.RegisterFlagCompletionFunc("group", completeGroups)

	return cmd
}

// addCandidates returns the paths to check. A path inside a work tree stands
// for the repo's top level. With walk, every directory below each path is
// included instead; a spinner is shown while walking.
func addCandidates(ctx context.Context, paths []string, walk bool) ([]string, error) {
	l := log.FromContext(ctx)

	if !walk {
		candidates := make([]string, len(paths))
		for i, p := range paths {
			candidates[i] = p
			if top, err := git.TopLevel(ctx, p); err == nil {
				candidates[i] = top
			}
		}
		return candidates, nil
	}

	var (
		scan  *progress.Scan
		visit func(string)
	)
	if l.IsInteractive() {
		scan = progress.NewScan(l.Writer())
		scan.Start()
		defer scan.Stop()
		visit = scan.Visit
	}

	var dirs []string
	for _, p := range paths {
		if scan != nil {
			scan.Root(p)
		}
		found, err := registry.FindDirs(p, visit)
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		l.Debug("walked directory", "root", p, "dirs", len(found))
		dirs = append(dirs, found...)
	}
	return dirs, nil
}
