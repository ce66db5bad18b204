package dispatch

import (
	"slices"

	"github.com/raphi011/mr/internal/registry"
)

// Job is one repo and the exact argv to run in its directory.
// The argv is fixed when the job is built and reused unchanged on retry.
type Job struct {
	Repo registry.Repo
	Argv []string
}

// GitJobs builds one job per repo. When argv starts with "git" the repo's
// flags are spliced in right after it.
func GitJobs(repos []registry.Repo, argv []string) []Job {
	jobs := make([]Job, len(repos))
	for i, repo := range repos {
		jobs[i] = Job{Repo: repo, Argv: spliceFlags(argv, repo.Flags)}
	}
	return jobs
}

// ShellJobs builds one job per repo running script through sh -c.
// Repo flags do not apply to shell commands.
func ShellJobs(repos []registry.Repo, script string) []Job {
	jobs := make([]Job, len(repos))
	for i, repo := range repos {
		jobs[i] = Job{Repo: repo, Argv: []string{"sh", "-c", script}}
	}
	return jobs
}

func spliceFlags(argv, flags []string) []string {
	if len(argv) == 0 || argv[0] != "git" || len(flags) == 0 {
		return slices.Clone(argv)
	}
	return slices.Concat(argv[:1], flags, argv[1:])
}
