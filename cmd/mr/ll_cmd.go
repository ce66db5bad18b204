package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/format"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/selector"
	"github.com/raphi011/mr/internal/status"
	"github.com/raphi011/mr/internal/ui/progress"
)

func newLlCmd() *cobra.Command {
	var (
		byGroup  bool
		noColors bool
	)

	cmd := &cobra.Command{
		Use:     "ll [group]",
		Short:   "Show the status of repos",
		GroupID: GroupStatus,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Long: `Show one status line per repo.

Each line shows the configured info items (see 'mr info'). The branch item
is the head name followed by status symbols in brackets:

  *  dirty          +  staged
  $  stashed        ?  untracked
  ↑  local ahead    ↓  remote ahead
  ⇕  diverged       ∅  no remote

and is colored by the repo's relation to its upstream (see 'mr color').

Without a group the context group is shown, or all repos.`,
		Example: `  mr ll                 # All repos (or the context group)
  mr ll backend         # Only repos in the backend group
  mr ll -g              # Grouped by group
  mr ll -C              # Plain output`,
		ValidArgsFunction: completeGroups,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			out := output.FromContext(ctx)

			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			group, err := llGroup(args, snap)
			if err != nil {
				return err
			}
			repos := snap.Repos()
			if group != "" {
				repos = snap.Members(group)
			}

			reports := collectReports(ctx, status.FieldsFor(cfg.Info), repos)
			f := format.New(cfg, noColors)
			w := format.NewWriter(out.Writer(), noColors)

			switch {
			case !byGroup:
				writeLines(w, "", f.Lines(reports))
			case group != "":
				fmt.Fprintf(w, "%s:\n", group)
				writeLines(w, "  ", f.Lines(reports))
			default:
				byName := make(map[string]status.Report, len(reports))
				for _, r := range reports {
					byName[r.Repo.Name] = r
				}
				for _, g := range snap.Groups() {
					var members []status.Report
					for _, name := range g.Repos {
						if r, ok := byName[name]; ok {
							members = append(members, r)
						}
					}
					fmt.Fprintf(w, "%s:\n", g.Name)
					writeLines(w, "  ", f.Lines(members))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&byGroup, "group", "g", false, "Show repos by group")
	cmd.Flags().BoolVarP(&noColors, "no-colors", "C", false, "Disable coloring of the branch item")

	return cmd
}

// llGroup returns the group to list: the argument, else the context.
func llGroup(args []string, snap *registry.Snapshot) (string, error) {
	if len(args) == 1 {
		if !snap.IsGroup(args[0]) {
			return "", &selector.Error{
				Msg:         fmt.Sprintf("unknown group %q", args[0]),
				Suggestions: selector.Suggest(args[0], snap.GroupNames()),
			}
		}
		return args[0], nil
	}
	group, _ := snap.Context()
	return group, nil
}

// collectReports gathers status for repos, with a progress bar on stderr
// when it is a terminal.
func collectReports(ctx context.Context, fields status.Fields, repos []registry.Repo) []status.Report {
	c := status.NewCollector(fields)

	l := log.FromContext(ctx)
	if l.IsInteractive() && len(repos) > 1 {
		bar := progress.NewProgressBar(l.Writer(), len(repos), "checking repos")
		bar.Start()
		defer bar.Stop()
		c.Progress = bar.SetProgress
	}

	return c.Collect(ctx, repos)
}

func writeLines(w io.Writer, indent string, lines []string) {
	for _, line := range lines {
		fmt.Fprintln(w, indent+line)
	}
}
