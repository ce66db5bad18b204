package main

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/format"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
)

func newColorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "color",
		Short:   "Show or change branch colors",
		GroupID: GroupConfig,
		Long: `Show or change the color of the branch item in 'mr ll' for each
local/remote situation: no_remote, in_sync, diverged, local_ahead, remote_ahead.`,
		Example: `  mr color ll
  mr color set diverged b_red
  mr color reset`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listColors(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "ll",
		Short: "Show the colors in use and the available ones",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listColors(cmd)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <situation> <color>",
		Short: "Set the color of a situation",
		Args:  usageArgs(cobra.ExactArgs(2)),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			switch len(args) {
			case 0:
				return config.Situations, cobra.ShellCompDirectiveNoFileComp
			case 1:
				return config.ColorNames, cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateColor(args[0], args[1]); err != nil {
				return usageError(err)
			}
			if err := config.SetColor(args[0], args[1]); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Printf("Set %s to %s\n", args[0], args[1])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default colors",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ResetColors(); err != nil {
				return err
			}
			log.FromContext(cmd.Context()).Println("Colors reset to defaults")
			return nil
		},
	})

	return cmd
}

func listColors(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg := configFrom(ctx)
	w := format.NewWriter(output.FromContext(ctx).Writer(), false)

	var b strings.Builder
	b.WriteString("In use:\n")
	for _, situation := range config.Situations {
		color := cfg.Colors[situation]
		b.WriteString("  " + situation + ": " + format.Style(color).Render(color) + "\n")
	}
	b.WriteString("Available:\n ")
	for _, color := range config.ColorNames {
		b.WriteString(" " + format.Style(color).Render(color))
	}
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}
