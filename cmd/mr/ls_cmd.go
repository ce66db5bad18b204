package main

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/selector"
)

func newLsCmd() *cobra.Command {
	var copyToClipboard bool

	cmd := &cobra.Command{
		Use:     "ls [repo]",
		Short:   "List repo names, or show the path of one repo",
		GroupID: GroupStatus,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Example: `  mr ls                 # api web worker
  cd "$(mr ls api)"     # Jump to a repo
  mr ls api --copy      # Copy the path to the clipboard`,
		ValidArgsFunction: completeRepos,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				out.Println(strings.Join(snap.RepoNames(), " "))
				return nil
			}

			repo, ok := snap.Repo(args[0])
			if !ok {
				return &selector.Error{
					Msg:         fmt.Sprintf("unknown repo %q", args[0]),
					Suggestions: selector.Suggest(args[0], snap.RepoNames()),
				}
			}

			if copyToClipboard {
				if err := clipboard.WriteAll(repo.Path); err != nil {
					log.FromContext(ctx).Printf("Warning: failed to copy to clipboard: %v\n", err)
				}
			}

			out.Println(repo.Path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&copyToClipboard, "copy", false, "Copy path to clipboard")

	return cmd
}
