package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
)

var (
	// Global flags
	verbose bool
	quiet   bool

	// logFile is the rotating debug log, open when log_file is configured
	logFile io.WriteCloser
)

// Command group IDs for organizing help output
const (
	GroupStatus   = "status"
	GroupRun      = "run"
	GroupRegistry = "registry"
	GroupVerbs    = "verbs"
	GroupConfig   = "config"
)

// newRootCmd builds the command tree. The configured delegated commands
// become subcommands, so the config must be loaded first.
func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mr",
		Short: "Manage many git repos side by side",
		Long: `mr shows the status of many git repositories side by side and runs
git or shell commands in a selected subset of them, concurrently where possible.

Repos are selected by name or by group. Without a selection the context group
is used, or every registered repo if no context is set.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return nil
			}
			msg := fmt.Sprintf("unknown command %q for %q", args[0], cmd.CommandPath())
			if s := cmd.SuggestionsFor(args[0]); len(s) > 0 {
				msg += " (did you mean " + strings.Join(s, ", ") + "?)"
			}
			return usageError(errors.New(msg))
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Flags are parsed by now, so this is the first point the logger can be built
			var opts []log.Option
			if cfg.LogFile != "" {
				logFile = log.RotatingFile(cfg.LogFile)
				opts = append(opts, log.WithFile(logFile))
			}
			cmd.SetContext(log.WithLogger(cmd.Context(), log.New(os.Stderr, verbose, quiet, opts...)))

			// Skip git check for completion and help commands
			if cmd.Name() == "completion" || cmd.Name() == "__complete" || cmd.Name() == "help" {
				return nil
			}
			return git.CheckGit()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show external commands being executed")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "Suppress all log output")
	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	rootCmd.Version = versionString()
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	rootCmd.AddGroup(
		&cobra.Group{ID: GroupStatus, Title: "Status Commands:"},
		&cobra.Group{ID: GroupRun, Title: "Run Commands:"},
		&cobra.Group{ID: GroupRegistry, Title: "Registry Commands:"},
		&cobra.Group{ID: GroupVerbs, Title: "Delegated Commands:"},
		&cobra.Group{ID: GroupConfig, Title: "Configuration Commands:"},
	)

	// Status commands
	rootCmd.AddCommand(newLlCmd())
	rootCmd.AddCommand(newLsCmd())
	rootCmd.AddCommand(newFreezeCmd())

	// Run commands
	rootCmd.AddCommand(newSuperCmd())
	rootCmd.AddCommand(newShellCmd())

	// Registry commands
	rootCmd.AddCommand(newAddCmd())
	rootCmd.AddCommand(newRmCmd())
	rootCmd.AddCommand(newRenameCmd())
	rootCmd.AddCommand(newFlagsCmd())
	rootCmd.AddCommand(newGroupCmd())
	rootCmd.AddCommand(newContextCmd())
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newClearCmd())

	// Config commands
	rootCmd.AddCommand(newColorCmd())
	rootCmd.AddCommand(newInfoCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// Delegated commands from [commands.*]
	addVerbCmds(rootCmd, cfg)

	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	loadedCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	cfg := &loadedCfg

	workDir, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "mr: failed to get working directory: %v\n", err)
		return exitFailure
	}

	// Cancelling kills every child process still running
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCmd(cfg)
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	ctx = config.WithConfig(ctx, cfg)
	ctx = config.WithWorkDir(ctx, workDir)
	ctx = output.WithPrinter(ctx, os.Stdout)

	err = rootCmd.ExecuteContext(ctx)
	if reportable(err) {
		fmt.Fprintln(os.Stderr, "mr:", err)
		if exitCode(err) == exitUsage {
			fmt.Fprintln(os.Stderr, "Run 'mr -h' for help")
		}
	}
	return exitCode(err)
}
