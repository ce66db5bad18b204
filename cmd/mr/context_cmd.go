package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
)

func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "context [none|auto|group]",
		Short:   "Show or set the context group",
		GroupID: GroupRegistry,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Long: `Show or set the context.

When a context is set, commands without an explicit selection only see the
repos of the context group. With "auto" the context is the group whose path
contains the working directory (the deepest one wins). "none" clears it.`,
		Example: `  mr context            # Show the context
  mr context backend    # Limit to the backend group
  mr context auto       # Follow the working directory
  mr context none       # Clear the context`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			groups, directive := completeGroups(cmd, args, toComplete)
			return append([]string{registry.ContextNone, registry.ContextAuto}, groups...), directive
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if len(args) == 1 {
				err := updateRegistry(func(r *registry.Registry) error {
					if args[0] != registry.ContextNone && args[0] != registry.ContextAuto {
						if err := checkGroups(r, args); err != nil {
							return err
						}
					}
					return r.SetContext(args[0])
				})
				if err != nil {
					return err
				}
				log.FromContext(ctx).Printf("Context set to %s\n", args[0])
				return nil
			}

			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}
			out := output.FromContext(ctx)
			group, ok := snap.Context()
			switch {
			case snap.ContextSetting() == "":
				out.Println("Context is not set")
			case snap.ContextSetting() == registry.ContextAuto && !ok:
				out.Println("auto: none detected!")
			case snap.ContextSetting() == registry.ContextAuto:
				out.Printf("auto: %s: %s\n", group, memberNames(snap, group))
			default:
				out.Printf("%s: %s\n", group, memberNames(snap, group))
			}
			return nil
		},
	}
	return cmd
}

func memberNames(snap *registry.Snapshot, group string) string {
	g, _ := snap.Group(group)
	return strings.Join(g.Repos, " ")
}
