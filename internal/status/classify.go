// Package status classifies the working tree and upstream state of repos.
package status

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/registry"
)

// Status is the classification of one repo. A field whose probe failed
// keeps its zero value and the failure is recorded in Errs.
type Status struct {
	Dirty     bool
	Staged    bool
	Untracked bool
	Stashed   bool
	Relation  Relation
	Errs      []error
}

// Err returns the probe failures joined, or nil.
func (s Status) Err() error {
	return errors.Join(s.Errs...)
}

// ProbeError is a git probe that exited with a code outside its contract
// or could not run at all.
type ProbeError struct {
	Repo  string
	Probe string
	Code  int // -1 when git did not run
	Err   error
}

func (e *ProbeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s probe: %v", e.Repo, e.Probe, e.Err)
	}
	return fmt.Sprintf("%s: %s probe: unexpected exit code %d", e.Repo, e.Probe, e.Code)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}

// Prober runs one git command for a repo and reports its exit code and stdout.
// A non-zero exit is not an error.
type Prober interface {
	Probe(ctx context.Context, repo registry.Repo, args ...string) (int, []byte, error)
}

// GitProber runs probes with the git CLI in the repo directory, with the
// repo flags spliced in after "git".
type GitProber struct{}

// Probe implements Prober.
func (GitProber) Probe(ctx context.Context, repo registry.Repo, args ...string) (int, []byte, error) {
	return git.Capture(ctx, git.Target{Path: repo.Path, Flags: repo.Flags}, args...)
}

// Classifier derives a Status from probes.
type Classifier struct {
	prober Prober
}

// New returns a Classifier using p.
func New(p Prober) *Classifier {
	return &Classifier{prober: p}
}

// NewGit returns a Classifier backed by the git CLI.
func NewGit() *Classifier {
	return New(GitProber{})
}

// Classify runs all probes for repo. It never fails as a whole: each probe
// failure only blanks its own field.
func (c *Classifier) Classify(ctx context.Context, repo registry.Repo) Status {
	var st Status
	record := func(err error) {
		if err != nil {
			st.Errs = append(st.Errs, err)
			log.FromContext(ctx).Debug("status probe failed", "repo", repo.Name, "err", err)
		}
	}

	var err error
	st.Dirty, err = c.differs(ctx, repo, "dirty", "diff", "--quiet")
	record(err)
	st.Staged, err = c.differs(ctx, repo, "staged", "diff", "--quiet", "--cached")
	record(err)
	st.Untracked, err = c.untracked(ctx, repo)
	record(err)
	code, err := c.exit(ctx, repo, "stashed", []int{0, 1}, "rev-parse", "--verify", "--quiet", "refs/stash")
	st.Stashed = err == nil && code == 0
	record(err)
	st.Relation, err = c.relation(ctx, repo)
	record(err)

	return st
}

// differs runs a probe whose exit code 0 means "same" and 1 means "different".
func (c *Classifier) differs(ctx context.Context, repo registry.Repo, probe string, args ...string) (bool, error) {
	code, err := c.exit(ctx, repo, probe, []int{0, 1}, args...)
	return code == 1, err
}

func (c *Classifier) untracked(ctx context.Context, repo registry.Repo) (bool, error) {
	code, out, err := c.prober.Probe(ctx, repo, "ls-files", "-zo", "--exclude-standard")
	if err != nil || code != 0 {
		return false, &ProbeError{Repo: repo.Name, Probe: "untracked", Code: code, Err: err}
	}
	return len(out) > 0, nil
}

func (c *Classifier) relation(ctx context.Context, repo registry.Repo) (Relation, error) {
	ur, err := c.exit(ctx, repo, "upstream", []int{0, 1, noUpstreamCode}, "diff", "--quiet", "@{u}", "@{0}")
	if err != nil {
		return Unknown, err
	}
	if ur != 1 {
		return Decide(ur, 0, 0), nil
	}

	code, out, err := c.prober.Probe(ctx, repo, "merge-base", "@{0}", "@{u}")
	common := strings.TrimSpace(string(out))
	if err != nil || code != 0 || common == "" {
		return Unknown, &ProbeError{Repo: repo.Name, Probe: "merge-base", Code: code, Err: err}
	}

	uc, err := c.exit(ctx, repo, "upstream-base", []int{0, 1}, "diff", "--quiet", "@{u}", common)
	if err != nil {
		return Unknown, err
	}
	if uc == 0 {
		return Decide(ur, uc, 0), nil
	}

	lc, err := c.exit(ctx, repo, "local-base", []int{0, 1}, "diff", "--quiet", "@{0}", common)
	if err != nil {
		return Unknown, err
	}
	return Decide(ur, uc, lc), nil
}

// exit runs a probe and rejects exit codes outside accepted.
func (c *Classifier) exit(ctx context.Context, repo registry.Repo, probe string, accepted []int, args ...string) (int, error) {
	code, _, err := c.prober.Probe(ctx, repo, args...)
	if err != nil {
		return -1, &ProbeError{Repo: repo.Name, Probe: probe, Code: -1, Err: err}
	}
	if !slices.Contains(accepted, code) {
		return code, &ProbeError{Repo: repo.Name, Probe: probe, Code: code}
	}
	return code, nil
}
