package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/ui/static"
)

func newGroupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "group",
		Short:   "Manage groups",
		Aliases: []string{"g"},
		GroupID: GroupRegistry,
		Long: `Manage named groups of repos.

A group name can be used anywhere a repo name can, selecting all its members.
Group names must differ from repo names; "none" and "auto" are reserved.`,
		Example: `  mr group ll                       # Groups with members and path
  mr group ll backend               # Members of one group
  mr group add api worker -n backend
  mr group rmrepo worker -n backend
  mr group rename backend be
  mr group rm be`,
	}

	cmd.AddCommand(newGroupLlCmd())
	cmd.AddCommand(newGroupLsCmd())
	cmd.AddCommand(newGroupAddCmd())
	cmd.AddCommand(newGroupRmRepoCmd())
	cmd.AddCommand(newGroupRenameCmd())
	cmd.AddCommand(newGroupRmCmd())

	return cmd
}

func newGroupLlCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "ll [group]",
		Short:             "List groups with their members",
		Args:              usageArgs(cobra.MaximumNArgs(1)),
		ValidArgsFunction: completeGroups,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			if len(args) == 1 {
				group, err := llGroup(args, snap)
				if err != nil {
					return err
				}
				g, _ := snap.Group(group)
				out.Println(strings.Join(g.Repos, " "))
				return nil
			}

			groups := snap.Groups()
			if len(groups) == 0 {
				log.FromContext(ctx).Println("No groups defined")
				return nil
			}
			out.Print(static.RenderTable([]string{"GROUP", "REPOS", "PATH"}, static.GroupRows(groups)))
			return nil
		},
	}
}

func newGroupLsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List group names",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}
			if names := snap.GroupNames(); len(names) > 0 {
				output.FromContext(ctx).Println(strings.Join(names, " "))
			}
			return nil
		},
	}
}

func newGroupAddCmd() *cobra.Command {
	var (
		name string
		path string
	)

	cmd := &cobra.Command{
		Use:               "add <repo>... -n <group>",
		Short:             "Add repos to a group, creating it if needed",
		Args:              usageArgs(cobra.MinimumNArgs(1)),
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkRepos(r, args); err != nil {
					return err
				}
				return r.AddToGroup(name, args, path)
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Added %s to %s\n", strings.Join(args, ", "), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Group name")
	cmd.Flags().StringVarP(&path, "path", "p", "", "Group path, used by the auto context")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagDirname("path")
	cmd.RegisterFlagCompletionFunc("name", completeGroups)

	return cmd
}

func newGroupRmRepoCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:               "rmrepo <repo>... -n <group>",
		Short:             "Remove repos from a group",
		Args:              usageArgs(cobra.MinimumNArgs(1)),
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkGroups(r, []string{name}); err != nil {
					return err
				}
				return r.RemoveFromGroup(name, args)
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Removed %s from %s\n", strings.Join(args, ", "), name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Group name")
	cmd.MarkFlagRequired("name")
	cmd.RegisterFlagCompletionFunc("name", completeGroups)

	return cmd
}

func newGroupRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rename <group> <new-name>",
		Short:             "Rename a group",
		Args:              usageArgs(cobra.ExactArgs(2)),
		ValidArgsFunction: completeGroups,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkGroups(r, args[:1]); err != nil {
					return err
				}
				return r.RenameGroup(args[0], args[1])
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Renamed group %s to %s\n", args[0], args[1])
			return nil
		},
	}
}

func newGroupRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:               "rm <group>...",
		Short:             "Delete groups",
		Args:              usageArgs(cobra.MinimumNArgs(1)),
		ValidArgsFunction: completeGroups,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := updateRegistry(func(r *registry.Registry) error {
				if err := checkGroups(r, args); err != nil {
					return err
				}
				return r.DeleteGroups(args...)
			})
			if err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Deleted %s\n", strings.Join(args, ", "))
			return nil
		},
	}
}
