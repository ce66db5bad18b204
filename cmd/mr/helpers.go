package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/dispatch"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
)

// openStore loads the registry from the mr config directory.
func openStore() (*registry.Store, error) {
	path, err := registry.DefaultPath()
	if err != nil {
		return nil, err
	}
	store, err := registry.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load registry: %w", err)
	}
	return store, nil
}

// loadSnapshot loads the registry and returns the view from the working
// directory. Repos whose directory is gone are left out.
func loadSnapshot(ctx context.Context) (*registry.Snapshot, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return store.Snapshot(config.WorkDirFromContext(ctx)).Prune(ctx), nil
}

// updateRegistry applies fn to the registry under the file lock.
func updateRegistry(fn func(*registry.Registry) error) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	return store.Update(fn)
}

// configFrom returns the config from context, or the defaults.
func configFrom(ctx context.Context) *config.Config {
	if cfg := config.FromContext(ctx); cfg != nil {
		return cfg
	}
	cfg := config.Default()
	return &cfg
}

// newDispatcher wires the dispatcher to the terminal and the context printer.
func newDispatcher(ctx context.Context) *dispatch.Dispatcher {
	out := output.FromContext(ctx)
	return &dispatch.Dispatcher{
		Runner: dispatch.ExecRunner{
			Stdin:  os.Stdin,
			Stdout: out.Writer(),
			Stderr: os.Stderr,
		},
		Blacklist: configFrom(ctx).BlacklistedVerbs(),
		Out:       out,
		ErrOut:    output.New(os.Stderr),
	}
}

// runJobs dispatches jobs and turns a partial failure into exit status 1.
// Repos that still failed after the retry are named in the returned error.
func runJobs(ctx context.Context, verb string, jobs []dispatch.Job) error {
	if len(jobs) == 0 {
		log.FromContext(ctx).Println("No repos selected")
		return nil
	}
	res := newDispatcher(ctx).Dispatch(ctx, verb, jobs)
	if err := dispatchError(res); err != nil {
		log.FromContext(ctx).Debug("dispatch failed", "failed", len(res.Failed()))
		return err
	}
	return nil
}

// completeSelectors completes repo and group names.
func completeSelectors(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return append(snap.RepoNames(), snap.GroupNames()...), cobra.ShellCompDirectiveNoFileComp
}

// completeRepos completes repo names.
func completeRepos(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return snap.RepoNames(), cobra.ShellCompDirectiveNoFileComp
}

// completeGroups completes group names.
func completeGroups(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	snap, err := loadSnapshot(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return snap.GroupNames(), cobra.ShellCompDirectiveNoFileComp
}
