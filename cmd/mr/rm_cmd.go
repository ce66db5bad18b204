package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/selector"
)

func newRmCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rm <repo>...",
		Short:             "Unregister repos",
		GroupID:           GroupRegistry,
		Args:              usageArgs(cobra.MinimumNArgs(1)),
		Long:              "Unregister repos. The repos are removed from every group; nothing on disk is touched.",
		Example:           "  mr rm api web",
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkRepos(r, args); err != nil {
					return err
				}
				return r.Remove(args...)
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Removed %s\n", strings.Join(args, ", "))
			return nil
		},
	}
	return cmd
}

func newRenameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rename <repo> <new-name>",
		Short:             "Rename a repo",
		GroupID:           GroupRegistry,
		Args:              usageArgs(cobra.ExactArgs(2)),
		Long:              "Rename a repo. Group memberships follow the new name.",
		Example:           "  mr rename api backend-api",
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkRepos(r, args[:1]); err != nil {
					return err
				}
				return r.Rename(args[0], args[1])
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Renamed %s to %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

// checkRepos returns a selector error with suggestions for the first unknown repo.
func checkRepos(r *registry.Registry, names []string) error {
	for _, name := range names {
		if _, err := r.FindRepo(name); err != nil {
			return &selector.Error{
				Msg:         fmt.Sprintf("unknown repo %q", name),
				Suggestions: selector.Suggest(name, r.RepoNames()),
			}
		}
	}
	return nil
}

// checkGroups is checkRepos for group names.
func checkGroups(r *registry.Registry, names []string) error {
	for _, name := range names {
		if _, err := r.FindGroup(name); err != nil {
			var candidates []string
			for _, g := range r.Groups {
				candidates = append(candidates, g.Name)
			}
			return &selector.Error{
				Msg:         fmt.Sprintf("unknown group %q", name),
				Suggestions: selector.Suggest(name, candidates),
			}
		}
	}
	return nil
}
