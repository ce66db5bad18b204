package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/dispatch"
	"github.com/raphi011/mr/internal/selector"
)

func newSuperCmd() *cobra.Command {
	var quoteMode bool

	cmd := &cobra.Command{
		Use:     "super [-q] [repo|group...] <git args...>",
		Short:   "Run any git command or alias",
		GroupID: GroupRun,
		Long: `Run a git command in the selected repos.

Leading arguments that name a repo or group select where the command runs;
everything from the first other argument on is passed to git. Each repo's
custom flags (see 'mr flags') are added after "git".

With -q the command is given as one quoted string, so repo names can also
appear inside it.`,
		Example: `  mr super checkout main
  mr super api web commit -am "fix a bug"
  mr super backend -q "log -1 --format=%s api"`,
		ValidArgsFunction: completeSelectors,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			var (
				set     selector.WorkingSet
				gitArgs []string
			)
			if quoteMode {
				var quoted string
				set, quoted, err = selector.ResolveQuoted(args, snap)
				gitArgs = strings.Fields(quoted)
			} else {
				set, gitArgs, err = selector.ResolveCommand(args, snap)
			}
			if err != nil {
				return err
			}
			if len(gitArgs) == 0 {
				return &selector.Error{Msg: "missing git command"}
			}

			argv := append([]string{"git"}, gitArgs...)
			return runJobs(ctx, gitArgs[0], dispatch.GitJobs(set, argv))
		},
	}

	cmd.Flags().BoolVarP(&quoteMode, "quote-mode", "q", false, "Take the command as one quoted string")
	// Everything after the first positional argument belongs to git
	cmd.Flags().SetInterspersed(false)

	return cmd
}

func newShellCmd() *cobra.Command {
	var quoteMode bool

	cmd := &cobra.Command{
		Use:     "shell [-q] [repo|group...] <command...>",
		Short:   "Run any shell command",
		GroupID: GroupRun,
		Long: `Run a shell command in the selected repos through sh -c.

Repo selection works like 'mr super'. The remaining arguments are joined
with spaces into one shell command; quote pipes and redirections so your
own shell does not interpret them.`,
		Example: `  mr shell pwd
  mr shell api web "git log --oneline | head -3"
  mr shell -q "ls | wc -l"`,
		ValidArgsFunction: completeSelectors,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			var (
				set    selector.WorkingSet
				script string
			)
			if quoteMode {
				set, script, err = selector.ResolveQuoted(args, snap)
			} else {
				var rest []string
				set, rest, err = selector.ResolveCommand(args, snap)
				script = strings.Join(rest, " ")
			}
			if err != nil {
				return err
			}

			return runJobs(ctx, "shell", dispatch.ShellJobs(set, script))
		},
	}

	cmd.Flags().BoolVarP(&quoteMode, "quote-mode", "q", false, "Take the command as one quoted string")
	cmd.Flags().SetInterspersed(false)

	return cmd
}
