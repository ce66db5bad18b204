package main

import (
	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/ui/prompt"
)

func newClearCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "clear",
		Short:   "Unregister all repos and groups",
		GroupID: GroupRegistry,
		Args:    usageArgs(cobra.NoArgs),
		Long: `Unregister every repo and delete every group. Nothing on disk is touched.

Asks for confirmation when run in a terminal, unless --yes is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			l := log.FromContext(cmd.Context())

			if !yes && prompt.IsInteractive() {
				res, err := prompt.Confirm("Unregister all repos and groups?")
				if err != nil {
					return err
				}
				if !res.Confirmed {
					l.Println("Aborted")
					return nil
				}
			}

			err := updateRegistry(func(r *registry.Registry) error {
				r.Clear()
				return nil
			})
			if err != nil {
				return err
			}
			l.Println("Registry cleared")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")

	return cmd
}
