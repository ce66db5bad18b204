//go:build integration

package dispatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/raphi011/mr/internal/log"
	"github.com/raphi011/mr/internal/output"
	"github.com/raphi011/mr/internal/registry"
)

func TestExecRunner_RetryWithRealProcesses(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	var repos []registry.Repo
	for _, name := range []string{"alpha", "beta"} {
		dir := filepath.Join(base, name)
		if err := os.Mkdir(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		repos = append(repos, registry.Repo{Name: name, Path: dir})
	}

	// The first run in each dir leaves a marker and fails, the second succeeds.
	script := `if [ -f marker ]; then echo second; else touch marker; echo first; exit 1; fi`

	var out, errOut, attached bytes.Buffer
	d := &Dispatcher{
		Runner: ExecRunner{
			Stdout: &attached,
			Stderr: &attached,
		},
		Out:    output.New(&out),
		ErrOut: output.New(&errOut),
	}

	ctx := log.WithLogger(context.Background(), log.New(&bytes.Buffer{}, false, false))
	res := d.Dispatch(ctx, "shell", ShellJobs(repos, script))

	if !res.Concurrent {
		t.Fatal("expected the concurrent path")
	}
	for _, o := range res.Outcomes {
		if !o.OK() || !o.Retried {
			t.Errorf("%s = %+v, want retried success", o.Repo, o)
		}
	}
	if res.ExitCode() != 0 {
		t.Errorf("ExitCode() = %d, want 0: %v", res.ExitCode(), res.Err())
	}
	for _, want := range []string{"alpha: first\n", "beta: first\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output %q missing %q", out.String(), want)
		}
	}
	if got := attached.String(); got != "second\nsecond\n" {
		t.Errorf("attached output = %q, want both retries", got)
	}
}
