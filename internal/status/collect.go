package status

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/raphi011/mr/internal/git"
	"github.com/raphi011/mr/internal/registry"
)

// DefaultLimit bounds concurrent git probing across repos.
const DefaultLimit = 8

// Fields selects what Collect gathers per repo.
type Fields struct {
	Status     bool
	Head       bool
	CommitMsg  bool
	CommitTime bool
}

// FieldsFor returns the fields needed to render the given info items.
func FieldsFor(items []string) Fields {
	var f Fields
	for _, item := range items {
		switch item {
		case "branch":
			f.Status, f.Head = true, true
		case "branch_name":
			f.Head = true
		case "commit_msg":
			f.CommitMsg = true
		case "commit_time":
			f.CommitTime = true
		}
	}
	return f
}

// Info is the descriptive, non-status data shown for a repo.
type Info struct {
	Head       string
	CommitMsg  string
	CommitTime string
}

// Describer fetches Info for a repo. Failures leave fields empty.
type Describer func(ctx context.Context, repo registry.Repo, f Fields) Info

// Report is everything "mr ll" shows for one repo.
type Report struct {
	Repo   registry.Repo
	Status Status
	Info   Info
}

// Collector classifies and describes many repos concurrently.
type Collector struct {
	Classifier *Classifier
	Describe   Describer
	Fields     Fields
	Limit      int                   // concurrent repos, DefaultLimit when zero
	Progress   func(done, total int) // called after each repo, from any goroutine
}

// NewCollector returns a git-backed Collector for the given fields.
func NewCollector(f Fields) *Collector {
	return &Collector{Classifier: NewGit(), Describe: GitDescribe, Fields: f}
}

// Collect returns one report per repo in input order.
// Failures are contained per repo; Collect itself never fails.
func (c *Collector) Collect(ctx context.Context, repos []registry.Repo) []Report {
	reports := make([]Report, len(repos))

	limit := c.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	var g errgroup.Group
	g.SetLimit(limit)

	var done atomic.Int64
	for i, repo := range repos {
		g.Go(func() error {
			r := Report{Repo: repo}
			if c.Fields.Status && c.Classifier != nil {
				r.Status = c.Classifier.Classify(ctx, repo)
			}
			if c.Describe != nil {
				r.Info = c.Describe(ctx, repo, c.Fields)
			}
			reports[i] = r
			if c.Progress != nil {
				c.Progress(int(done.Add(1)), len(repos))
			}
			return nil // per-repo failures live in the report
		})
	}
	_ = g.Wait()

	return reports
}

// GitDescribe is the git CLI backed Describer.
func GitDescribe(ctx context.Context, repo registry.Repo, f Fields) Info {
	t := git.Target{Path: repo.Path, Flags: repo.Flags}
	var info Info
	if f.Head {
		info.Head, _ = git.Head(ctx, t)
	}
	if f.CommitMsg {
		info.CommitMsg, _ = git.CommitMsg(ctx, t)
	}
	if f.CommitTime {
		info.CommitTime, _ = git.CommitTime(ctx, t)
	}
	return info
}
