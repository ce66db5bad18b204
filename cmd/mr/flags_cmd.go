package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/ui/static"
)

func newFlagsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "flags",
		Short:   "Manage per-repo git flags",
		GroupID: GroupRegistry,
		Long: `Manage flags that are added after "git" for every git command run in a repo.

This makes it possible to register a repo whose work tree and git directory
are apart, e.g. with "--git-dir=/x/.git --work-tree=/y".`,
		Example: `  mr flags ll
  mr flags set api --git-dir=/srv/api.git
  mr flags set api                          # Clear the flags`,
	}

	cmd.AddCommand(newFlagsLlCmd())
	cmd.AddCommand(newFlagsSetCmd())

	return cmd
}

func newFlagsLlCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ll",
		Short: "List repos with custom flags",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}
			rows := static.FlagRows(snap.Repos())
			if len(rows) == 0 {
				log.FromContext(ctx).Println("No repo has custom flags")
				return nil
			}
			output.FromContext(ctx).Print(static.RenderTable([]string{"REPO", "FLAGS"}, rows))
			return nil
		},
	}
}

func newFlagsSetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "set <repo> [flag...]",
		Short:             "Set the flags of a repo",
		Args:              usageArgs(cobra.MinimumNArgs(1)),
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, flags := args[0], args[1:]
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkRepos(r, []string{name}); err != nil {
					return err
				}
				return r.SetFlags(name, flags)
			})
			if err != nil {
				return err
			}
			l := log.FromContext(cmd.Context())
			if len(flags) == 0 {
				l.Printf("Cleared flags of %s\n", name)
			} else {
				l.Printf("Set flags of %s: %s\n", name, strings.Join(flags, " "))
			}
			return nil
		},
	}
	// Everything after the repo name is a git flag
	cmd.Flags().SetInterspersed(false)
	return cmd
}
