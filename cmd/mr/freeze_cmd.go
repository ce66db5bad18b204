package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/selector"
)

func newFreezeCmd() *cobra.Command {
	var group string

	cmd := &cobra.Command{
		Use:     "freeze",
		Short:   "Print url,name,path for each repo",
		GroupID: GroupStatus,
		Args:    usageArgs(cobra.NoArgs),
		Long: `Print one "url,name,path" line per repo, using the first remote's URL.

Repos sharing a URL are printed once. The output can be fed to 'mr clone -f'
to recreate the same set of repos on another machine.`,
		Example: `  mr freeze > repos.csv
  mr freeze -g backend`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			snap, err := loadSnapshot(ctx)
			if err != nil {
				return err
			}

			if group == "" {
				group, _ = snap.Context()
			}
			repos := snap.Repos()
			if group != "" {
				if !snap.IsGroup(group) {
					return &selector.Error{
						Msg:         fmt.Sprintf("unknown group %q", group),
						Suggestions: selector.Suggest(group, snap.GroupNames()),
					}
				}
				repos = snap.Members(group)
			}

			seen := map[string]bool{}
			for _, repo := range repos {
				url, _ := git.RemoteURL(ctx, git.Target{Path: repo.Path, Flags: repo.Flags})
				if seen[url] && url != "" {
					continue
				}
				seen[url] = true
				out.Printf("%s,%s,%s\n", url, repo.Name, repo.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&group, "group", "g", "", "Only repos in this group")
	cmd.RegisterFlagCompletionFunc("group", completeGroups)

	return cmd
}
