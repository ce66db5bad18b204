package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/dispatch"
	"github.com/raphi011/mr/internal/selector"
)

// addVerbCmds adds one subcommand per configured delegated command.
// Names that clash with a built-in command are skipped.
func addVerbCmds(root *cobra.Command, cfg *config.Config) {
	for _, name := range cfg.CommandNames() {
		if existing, _, err := root.Find([]string{name}); err == nil && existing != root {
			continue
		}
		root.AddCommand(newVerbCmd(name, cfg.Commands[name]))
	}
}

func newVerbCmd(name string, c config.Command) *cobra.Command {
	shell := c.Shell

	use := name + " <repo|group...>"
	short := c.HelpText()
	if c.AllowAll {
		use = name + " [repo|group...]"
	}

	cmd := &cobra.Command{
		Use:               use,
		Short:             short,
		GroupID:           GroupVerbs,
		Long:              short + "\n\nRuns: " + c.Cmd,
		ValidArgsFunction: completeSelectors,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			set, err := selector.ResolveNames(args, snap, c.AllowAll)
			if err != nil {
				return err
			}

			var jobs []dispatch.Job
			if shell {
				jobs = dispatch.ShellJobs(set, c.Cmd)
			} else {
				jobs = dispatch.GitJobs(set, c.Fields())
			}
			return runJobs(ctx, name, jobs)
		},
	}

	cmd.Flags().BoolVarP(&shell, "shell", "s", c.Shell, "Run the command through sh -c")

	return cmd
}
