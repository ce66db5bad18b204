// Package dispatch runs a command in many repos, concurrently where possible.
//
// A single repo or a blacklisted verb runs sequentially, attached to the
// terminal. Everything else runs concurrently with stdin closed and output
// captured; each repo's output is printed as one prefixed block when it
// finishes. Repos that fail concurrently are re-run once, attached, in name
// order, so credential prompts and editors can work.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
)

// SpawnError is a child process that could not be started for a repo.
type SpawnError struct {
	Repo string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Repo, e.Err)
}

func (e *SpawnError) Unwrap() error {
	return e.Err
}

// Outcome is the final result for one repo.
type Outcome struct {
	Repo    string
	Path    string
	Exit    int   // exit code of the last attempt, -1 if it never ran
	Retried bool  // the concurrent attempt failed and the repo was re-run
	Err     error // *SpawnError or context error of the last attempt
}

// OK reports whether the last attempt succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil && o.Exit == 0
}

// Result holds one outcome per job, sorted by repo name.
type Result struct {
	Outcomes   []Outcome
	Concurrent bool // the concurrent path was used
}

// Failed returns the outcomes whose last attempt failed.
func (r Result) Failed() []Outcome {
	var failed []Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// ExitCode is 0 when every repo ultimately succeeded, 1 otherwise.
func (r Result) ExitCode() int {
	if len(r.Failed()) > 0 {
		return 1
	}
	return 0
}

// Err joins the errors of failed outcomes.
func (r Result) Err() error {
	var errs []error
	for _, o := range r.Failed() {
		if o.Err != nil {
			errs = append(errs, o.Err)
			continue
		}
		errs = append(errs, fmt.Errorf("%s: exit status %d", o.Repo, o.Exit))
	}
	return errors.Join(errs...)
}

// UseSequential reports whether jobs must run attached one after another.
func UseSequential(n int, verb string, blacklist []string) bool {
	return n == 1 || slices.Contains(blacklist, verb)
}

// Dispatcher runs jobs using Runner and prints through Out and ErrOut.
type Dispatcher struct {
	Runner    Runner
	Blacklist []string
	Out       *output.Printer // repo paths and captured output blocks
	ErrOut    *output.Printer // spawn failures
}

// Dispatch runs every job and returns the outcomes. verb selects the
// sequential path when it is blacklisted.
func (d *Dispatcher) Dispatch(ctx context.Context, verb string, jobs []Job) Result {
	jobs = slices.Clone(jobs)
	slices.SortFunc(jobs, func(a, b Job) int { return strings.Compare(a.Repo.Name, b.Repo.Name) })

	if UseSequential(len(jobs), verb, d.Blacklist) {
		log.FromContext(ctx).Debug("dispatching sequentially", "verb", verb, "repos", len(jobs))
		outcomes := make([]Outcome, len(jobs))
		for i, job := range jobs {
			outcomes[i] = d.attached(ctx, job)
		}
		return Result{Outcomes: outcomes}
	}

	log.FromContext(ctx).Debug("dispatching concurrently", "verb", verb, "repos", len(jobs))
	outcomes := d.concurrent(ctx, jobs)

	for i, job := range jobs {
		if outcomes[i].OK() || ctx.Err() != nil {
			continue
		}
		log.FromContext(ctx).Debug("retrying", "repo", job.Repo.Name, "exit", outcomes[i].Exit)
		outcomes[i] = d.attached(ctx, job)
		outcomes[i].Retried = true
	}
	return Result{Outcomes: outcomes, Concurrent: true}
}

// attached prints the repo path and runs the job attached to the terminal.
func (d *Dispatcher) attached(ctx context.Context, job Job) Outcome {
	d.Out.Println(job.Repo.Path)
	code, err := d.Runner.Attached(ctx, job.Repo.Path, job.Argv)
	o := Outcome{Repo: job.Repo.Name, Path: job.Repo.Path, Exit: code}
	if err != nil {
		o.Err = d.spawnError(ctx, job, err)
	}
	return o
}

type finished struct {
	idx            int
	code           int
	stdout, stderr []byte
	err            error
}

// concurrent starts all jobs at once and waits for every one of them.
// Output is printed by the calling goroutine as results arrive.
func (d *Dispatcher) concurrent(ctx context.Context, jobs []Job) []Outcome {
	results := make(chan finished, len(jobs))

	var g errgroup.Group
	for i, job := range jobs {
		g.Go(func() error {
			code, stdout, stderr, err := d.Runner.Captured(ctx, job.Repo.Path, job.Argv)
			results <- finished{idx: i, code: code, stdout: stdout, stderr: stderr, err: err}
			return nil // failures are collected for the retry pass
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	outcomes := make([]Outcome, len(jobs))
	for r := range results {
		job := jobs[r.idx]
		o := Outcome{Repo: job.Repo.Name, Path: job.Repo.Path, Exit: r.code}
		if r.err != nil {
			o.Err = d.spawnError(ctx, job, r.err)
		} else {
			d.Out.Block(job.Repo.Name, r.stdout, r.stderr)
		}
		outcomes[r.idx] = o
	}
	return outcomes
}

// spawnError reports a start failure for one repo. Context cancellation is
// returned as is and not printed.
func (d *Dispatcher) spawnError(ctx context.Context, job Job, err error) error {
	if ctx.Err() != nil {
		return err
	}
	se := &SpawnError{Repo: job.Repo.Name, Err: err}
	d.ErrOut.Println(se.Error())
	return se
}
