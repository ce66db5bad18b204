package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/dispatch"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
)

// cloneSpec is one repo to clone.
type cloneSpec struct {
	URL  string
	Name string
	Dest string // absolute clone destination
}

func newCloneCmd() *cobra.Command {
	var (
		fromFile     string
		preservePath bool
		directory    string
		dryRun       bool
		group        string
	)

	cmd := &cobra.Command{
		Use:     "clone [url]",
		Short:   "Clone repos and register them",
		GroupID: GroupRegistry,
		Args:    usageArgs(cobra.MaximumNArgs(1)),
		Long: `Clone one repo, or every repo listed in a file written by 'mr freeze'.

Clones run concurrently; a clone that fails (for example because it needs
credentials) is retried once attached to the terminal. Every successful
clone is registered.

Without -p, repos are cloned into the directory given by -C (default: the
working directory). With -p the paths recorded in the file are used.`,
		Example: `  mr clone https://github.com/org/api.git
  mr clone -f repos.csv -C ~/src
  mr clone -f repos.csv -p            # Recreate the recorded layout
  mr clone -f repos.csv -n            # Show what would be cloned`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			l := log.FromContext(ctx)
			out := output.FromContext(ctx)

			if (len(args) == 1) == (fromFile != "") {
				return usageError(errors.New("give either a url or -f <file>"))
			}

			base := directory
			if base == "" {
				base = config.WorkDirFromContext(ctx)
			}
			base, err := filepath.Abs(base)
			if err != nil {
				return fmt.Errorf("resolve directory: %w", err)
			}

			var specs []cloneSpec
			if fromFile != "" {
				f, err := os.Open(fromFile)
				if err != nil {
					return err
				}
				specs, err = parseFreeze(f, base, preservePath)
				f.Close()
				if err != nil {
					return fmt.Errorf("%s: %w", fromFile, err)
				}
			} else {
				name := repoNameFromURL(args[0])
				specs = []cloneSpec{{URL: args[0], Name: name, Dest: filepath.Join(base, name)}}
			}

			specs = skipExisting(ctx, specs)
			if dryRun {
				for _, s := range specs {
					out.Printf("git clone %s %s\n", s.URL, s.Dest)
				}
				return nil
			}
			if len(specs) == 0 {
				l.Println("Nothing to clone")
				return nil
			}

			jobs, err := cloneJobs(specs)
			if err != nil {
				return err
			}
			res := newDispatcher(ctx).Dispatch(ctx, "clone", jobs)

			var cloned []string
			dests := make(map[string]string, len(specs))
			for _, s := range specs {
				dests[s.Name] = s.Dest
			}
			for _, o := range res.Outcomes {
				if o.OK() {
					cloned = append(cloned, dests[o.Repo])
				}
			}

			if len(cloned) > 0 {
				var added []registry.Repo
				err := updateRegistry(func(r *registry.Registry) error {
					var err error
					added, err = r.AddRepos(ctx, cloned, registry.AddOptions{})
					if err != nil || group == "" || len(added) == 0 {
						return err
					}
					names := make([]string, len(added))
					for i, repo := range added {
						names[i] = repo.Name
					}
					return r.AddToGroup(group, names, "")
				})
				if err != nil {
					return fmt.Errorf("register clones: %w", err)
				}
				l.Printf("Cloned and registered %d repo(s)\n", len(added))
			}

			if code := res.ExitCode(); code != exitOK {
				l.Debug("clone failed", "error", res.Err())
				return &exitError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&fromFile, "from-file", "f", "", "Clone every repo listed in a freeze file")
	cmd.Flags().BoolVarP(&preservePath, "preserve-path", "p", false, "Clone to the paths recorded in the file")
	cmd.Flags().StringVarP(&directory, "directory", "C", "", "Directory to clone into")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Print the clone commands without running them")
	cmd.Flags().StringVarP(&group, "group", "g", "", "Add the cloned repos to this group")
	cmd.MarkFlagsMutuallyExclusive("preserve-path", "directory")
	cmd.MarkFlagFilename("from-file")
	cmd.MarkFlagDirname("directory")
	cmd.RegisterFlagCompletionFunc("group", completeGroups)

	return cmd
}

// parseFreeze reads "url,name,path" lines. Lines without a url are skipped.
func parseFreeze(r io.Reader, base string, preservePath bool) ([]cloneSpec, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var specs []cloneSpec
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return specs, nil
		}
		if err != nil {
			return nil, err
		}
		if len(rec) == 0 || strings.TrimSpace(rec[0]) == "" {
			continue
		}

		s := cloneSpec{URL: rec[0]}
		if len(rec) > 1 && rec[1] != "" {
			s.Name = rec[1]
		} else {
			s.Name = repoNameFromURL(s.URL)
		}
		switch {
		case preservePath && len(rec) > 2 && rec[2] != "":
			s.Dest = rec[2]
		case preservePath:
			return nil, fmt.Errorf("line %d: no path recorded for %s", line, s.Name)
		default:
			s.Dest = filepath.Join(base, filepath.Base(s.Name))
		}
		specs = append(specs, s)
	}
}

// skipExisting drops specs whose destination already exists.
func skipExisting(ctx context.Context, specs []cloneSpec) []cloneSpec {
	l := log.FromContext(ctx)
	kept := specs[:0]
	for _, s := range specs {
		if _, err := os.Stat(s.Dest); err == nil {
			l.Printf("Skipping %s: %s already exists\n", s.Name, s.Dest)
			continue
		}
		kept = append(kept, s)
	}
	return kept
}

// cloneJobs builds one job per clone, run from the destination's parent.
func cloneJobs(specs []cloneSpec) ([]dispatch.Job, error) {
	jobs := make([]dispatch.Job, len(specs))
	for i, s := range specs {
		parent := filepath.Dir(s.Dest)
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, err
		}
		jobs[i] = dispatch.Job{
			Repo: registry.Repo{Name: s.Name, Path: parent},
			Argv: []string{"git", "clone", s.URL, s.Dest},
		}
	}
	return jobs, nil
}

// repoNameFromURL extracts the repository name from a git URL
func repoNameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimRight(url, "/"), ".git")

	// SSH URLs (git@github.com:org/repo)
	if strings.Contains(url, ":") && !strings.Contains(url, "://") {
		if _, path, ok := strings.Cut(url, ":"); ok {
			url = path
		}
	}

	parts := strings.Split(url, "/")
	return parts[len(parts)-1]
}
