package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
)

func newInfoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "info",
		Short:   "Show or change the items shown by 'mr ll'",
		GroupID: GroupConfig,
		Long: `Show or change which info items 'mr ll' prints after the repo name, in order.

Available items: branch, branch_name, commit_msg, commit_time, path.`,
		Example: `  mr info ll
  mr info add path
  mr info rm commit_time`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listInfo(cmd)
		},
	}

	completeItems := func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return config.InfoItems, cobra.ShellCompDirectiveNoFileComp
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ll",
		Short: "Show the items in use and the unused ones",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listInfo(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "add <item>",
		Short:             "Append an item",
		Args:              usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateInfoItem(args[0]); err != nil {
				return usageError(err)
			}
			items := configFrom(cmd.Context()).Info
			if slices.Contains(items, args[0]) {
				log.FromContext(cmd.Context()).Printf("%s is already in use\n", args[0])
				return nil
			}
			return config.SetInfo(append(slices.Clone(items), args[0]))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:               "rm <item>",
		Short:             "Remove an item",
		Args:              usageArgs(cobra.ExactArgs(1)),
		ValidArgsFunction: completeItems,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateInfoItem(args[0]); err != nil {
				return usageError(err)
			}
			items := configFrom(cmd.Context()).Info
			if !slices.Contains(items, args[0]) {
				log.FromContext(cmd.Context()).Printf("%s is not in use\n", args[0])
				return nil
			}
			return config.SetInfo(slices.DeleteFunc(slices.Clone(items), func(s string) bool {
				return s == args[0]
			}))
		},
	})

	return cmd
}

func listInfo(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	out := output.FromContext(ctx)

	var unused []string
	for _, item := range config.InfoItems {
		if !slices.Contains(cfg.Info, item) {
			unused = append(unused, item)
		}
	}
	out.Printf("In use: %s\n", strings.Join(cfg.Info, ","))
	out.Printf("Unused: %s\n", strings.Join(unused, ","))
	return nil
}
