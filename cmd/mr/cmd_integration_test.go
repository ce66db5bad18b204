//go:build integration

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Tests in this file share the package-level flag variables and MR_HOME,
// so they do not run in parallel.

func setupTwoRepos(t *testing.T) (dir, alpha, beta string) {
	t.Helper()
	setupHome(t)
	dir = resolvePath(t, t.TempDir())
	alpha = setupTestRepo(t, dir, "alpha")
	beta = setupTestRepo(t, dir, "beta")

	if _, code := runMr(t, dir, "add", "-r", dir); code != exitOK {
		t.Fatalf("mr add -r exit = %d", code)
	}
	return dir, alpha, beta
}

func TestAdd_Ls(t *testing.T) {
	dir, alpha, _ := setupTwoRepos(t)

	out, code := runMr(t, dir, "ls")
	if code != exitOK {
		t.Fatalf("mr ls exit = %d", code)
	}
	if strings.TrimSpace(out) != "alpha beta" {
		t.Errorf("mr ls = %q, want %q", out, "alpha beta")
	}

	out, _ = runMr(t, dir, "ls", "alpha")
	if strings.TrimSpace(out) != alpha {
		t.Errorf("mr ls alpha = %q, want %q", out, alpha)
	}

	// Adding again registers nothing new
	runMr(t, dir, "add", alpha)
	out, _ = runMr(t, dir, "ls")
	if strings.TrimSpace(out) != "alpha beta" {
		t.Errorf("after re-add mr ls = %q", out)
	}
}

func TestAdd_SkipsNonRepos(t *testing.T) {
	setupHome(t)
	dir := resolvePath(t, t.TempDir())
	plain := filepath.Join(dir, "plain")
	if err := os.MkdirAll(plain, 0755); err != nil {
		t.Fatal(err)
	}

	if _, code := runMr(t, dir, "add", plain); code != exitOK {
		t.Fatalf("mr add exit = %d", code)
	}
	out, _ := runMr(t, dir, "ls")
	if strings.TrimSpace(out) != "" {
		t.Errorf("mr ls = %q, want empty", out)
	}
}

func TestAdd_AutoGroup(t *testing.T) {
	setupHome(t)
	dir := resolvePath(t, t.TempDir())
	root := filepath.Join(dir, "src")
	setupTestRepo(t, filepath.Join(root, "team"), "api")
	setupTestRepo(t, root, "web")

	if _, code := runMr(t, dir, "add", "-a", root); code != exitOK {
		t.Fatalf("mr add -a exit = %d", code)
	}

	out, _ := runMr(t, dir, "group", "ls")
	if strings.TrimSpace(out) != "src src-team" {
		t.Errorf("mr group ls = %q, want %q", out, "src src-team")
	}
	out, _ = runMr(t, dir, "group", "ll", "src-team")
	if strings.TrimSpace(out) != "api" {
		t.Errorf("mr group ll src-team = %q, want %q", out, "api")
	}
}

func TestLl(t *testing.T) {
	dir, _, beta := setupTwoRepos(t)

	if err := os.WriteFile(filepath.Join(beta, "new.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	out, code := runMr(t, dir, "ll", "--no-colors")
	if code != exitOK {
		t.Fatalf("mr ll exit = %d", code)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 {
		t.Fatalf("mr ll printed %d lines, want 2:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "alpha main       [∅]") {
		t.Errorf("alpha line = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "beta  main       [?∅]") {
		t.Errorf("beta line = %q", lines[1])
	}
	if !strings.Contains(lines[0], "Initial commit") {
		t.Errorf("alpha line %q should contain the commit message", lines[0])
	}

	short, code := runMr(t, dir, "ll", "-C")
	if code != exitOK || !strings.HasPrefix(short, "alpha main       [∅]") {
		t.Errorf("mr ll -C = (%q, %d), want plain output like --no-colors", short, code)
	}
}

func TestGroupAndContext(t *testing.T) {
	dir, alpha, _ := setupTwoRepos(t)

	if _, code := runMr(t, dir, "group", "add", "alpha", "-n", "core"); code != exitOK {
		t.Fatalf("mr group add exit = %d", code)
	}

	out, _ := runMr(t, dir, "context")
	if strings.TrimSpace(out) != "Context is not set" {
		t.Errorf("mr context = %q", out)
	}

	runMr(t, dir, "context", "core")
	out, _ = runMr(t, dir, "context")
	if strings.TrimSpace(out) != "core: alpha" {
		t.Errorf("mr context = %q, want %q", out, "core: alpha")
	}

	// Commands without a selection only see the context group. A single
	// repo runs attached, after its path is printed.
	out, code := runMr(t, dir, "shell", "echo", "hi")
	if code != exitOK {
		t.Fatalf("mr shell exit = %d", code)
	}
	if want := alpha + "\nhi\n"; out != want {
		t.Errorf("mr shell in context = %q, want %q", out, want)
	}

	runMr(t, dir, "group", "rm", "core")
	out, _ = runMr(t, dir, "context")
	if strings.TrimSpace(out) != "Context is not set" {
		t.Errorf("context after deleting its group = %q", out)
	}
}

func TestShell_Concurrent(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	out, code := runMr(t, dir, "shell", "echo hi; echo there")
	if code != exitOK {
		t.Fatalf("mr shell exit = %d", code)
	}
	for _, want := range []string{"alpha: hi\nalpha: there\n", "beta: hi\nbeta: there\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing block %q:\n%s", want, out)
		}
	}
}

func TestShell_FailureExitsOne(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	_, code := runMr(t, dir, "shell", "alpha", "exit 3")
	if code != exitFailure {
		t.Errorf("exit = %d, want %d", code, exitFailure)
	}
}

func TestShell_ReportsRetriedFailure(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	// both repos fail concurrently, are retried attached and fail again
	_, err := runMrErr(t, dir, "shell", "alpha", "beta", "exit 3")
	if got := exitCode(err); got != exitFailure {
		t.Errorf("exit = %d, want %d", got, exitFailure)
	}
	if !reportable(err) {
		t.Fatalf("error %v is not reported to the user", err)
	}
	for _, want := range []string{"alpha: exit status 3", "beta: exit status 3"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err.Error(), want)
		}
	}
}

func TestSuper(t *testing.T) {
	dir, alpha, _ := setupTwoRepos(t)

	out, code := runMr(t, dir, "super", "alpha", "rev-parse", "--show-toplevel")
	if code != exitOK {
		t.Fatalf("mr super exit = %d", code)
	}
	if want := alpha + "\n" + alpha + "\n"; out != want {
		t.Errorf("mr super rev-parse = %q, want %q", out, want)
	}

	out, _ = runMr(t, dir, "super", "-q", "alpha", "branch --show-current")
	if want := alpha + "\nmain\n"; out != want {
		t.Errorf("mr super -q = %q, want %q", out, want)
	}
}

func TestVerb(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	out, code := runMr(t, dir, "last", "alpha", "beta")
	if code != exitOK {
		t.Fatalf("mr last exit = %d", code)
	}
	if !strings.Contains(out, "alpha: ") || !strings.Contains(out, "Initial commit") {
		t.Errorf("mr last output = %q", out)
	}
}

func TestUsageErrors(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown repo", []string{"st", "nosuch"}},
		{"missing selector", []string{"st"}},
		{"unknown command", []string{"bogus"}},
		{"unknown flag", []string{"ll", "--bogus"}},
		{"unknown group", []string{"ll", "nogroup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, code := runMr(t, dir, tt.args...); code != exitUsage {
				t.Errorf("mr %v exit = %d, want %d", tt.args, code, exitUsage)
			}
		})
	}
}

func TestRenameAndRm(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	runMr(t, dir, "group", "add", "alpha", "beta", "-n", "all")
	if _, code := runMr(t, dir, "rename", "alpha", "first"); code != exitOK {
		t.Fatalf("mr rename exit = %d", code)
	}
	out, _ := runMr(t, dir, "group", "ll", "all")
	if strings.TrimSpace(out) != "beta first" {
		t.Errorf("group members after rename = %q", out)
	}

	if _, code := runMr(t, dir, "rm", "first"); code != exitOK {
		t.Fatalf("mr rm exit = %d", code)
	}
	out, _ = runMr(t, dir, "ls")
	if strings.TrimSpace(out) != "beta" {
		t.Errorf("mr ls after rm = %q", out)
	}
}

func TestFlags(t *testing.T) {
	dir, alpha, _ := setupTwoRepos(t)

	if _, code := runMr(t, dir, "flags", "set", "alpha", "-c", "core.pager=cat"); code != exitOK {
		t.Fatalf("mr flags set exit = %d", code)
	}
	out, _ := runMr(t, dir, "flags", "ll")
	if !strings.Contains(out, "alpha") || !strings.Contains(out, "-c core.pager=cat") {
		t.Errorf("mr flags ll = %q", out)
	}

	// The flags are spliced into git invocations
	out, _ = runMr(t, dir, "super", "alpha", "config", "core.pager")
	if want := alpha + "\ncat\n"; out != want {
		t.Errorf("mr super config = %q, want %q", out, want)
	}
}

func TestFreeze(t *testing.T) {
	dir, alpha, beta := setupTwoRepos(t)

	out, code := runMr(t, dir, "freeze")
	if code != exitOK {
		t.Fatalf("mr freeze exit = %d", code)
	}
	want := "https://example.com/test/alpha.git,alpha," + alpha + "\n" +
		"https://example.com/test/beta.git,beta," + beta + "\n"
	if out != want {
		t.Errorf("mr freeze =\n%s\nwant\n%s", out, want)
	}
}

func TestClone_FromFile(t *testing.T) {
	_, alpha, _ := setupTwoRepos(t)
	dest := resolvePath(t, t.TempDir())

	list := filepath.Join(dest, "repos.csv")
	if err := os.WriteFile(list, []byte(alpha+",copy,\n"), 0644); err != nil {
		t.Fatal(err)
	}

	out, code := runMr(t, dest, "clone", "-n", "-f", list)
	if code != exitOK {
		t.Fatalf("mr clone -n exit = %d", code)
	}
	if strings.TrimSpace(out) != "git clone "+alpha+" "+filepath.Join(dest, "copy") {
		t.Errorf("dry run = %q", out)
	}

	if _, code := runMr(t, dest, "clone", "-f", list, "-g", "copies"); code != exitOK {
		t.Fatalf("mr clone exit = %d", code)
	}
	if _, err := os.Stat(filepath.Join(dest, "copy", "README.md")); err != nil {
		t.Errorf("clone missing: %v", err)
	}
	out, _ = runMr(t, dest, "group", "ll", "copies")
	if strings.TrimSpace(out) != "copy" {
		t.Errorf("mr group ll copies = %q, want %q", out, "copy")
	}
}

func TestClear(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	if _, code := runMr(t, dir, "clear", "--yes"); code != exitOK {
		t.Fatalf("mr clear exit = %d", code)
	}
	out, _ := runMr(t, dir, "ls")
	if strings.TrimSpace(out) != "" {
		t.Errorf("mr ls after clear = %q", out)
	}
}

func TestInfoAndColor(t *testing.T) {
	dir, _, _ := setupTwoRepos(t)

	out, _ := runMr(t, dir, "info", "ll")
	if !strings.Contains(out, "In use: branch,commit_msg,commit_time") {
		t.Errorf("mr info ll = %q", out)
	}

	if _, code := runMr(t, dir, "info", "add", "nosuch"); code != exitUsage {
		t.Errorf("info add unknown item exit = %d, want %d", code, exitUsage)
	}
	if _, code := runMr(t, dir, "color", "set", "in_sync", "pink"); code != exitUsage {
		t.Errorf("color set unknown color exit = %d, want %d", code, exitUsage)
	}
	if _, code := runMr(t, dir, "color", "set", "in_sync", "b_blue"); code != exitOK {
		t.Errorf("color set exit = %d", code)
	}
	data, err := os.ReadFile(filepath.Join(os.Getenv("MR_HOME"), "config.toml"))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.Contains(string(data), `in_sync = "b_blue"`) {
		t.Errorf("config.toml = %s", data)
	}
}

func TestShell_SkipsDeletedRepo(t *testing.T) {
	dir, alpha, beta := setupTwoRepos(t)
	if err := os.RemoveAll(beta); err != nil {
		t.Fatal(err)
	}

	out, code := runMr(t, dir, "shell", "true")
	if code != exitOK {
		t.Errorf("exit = %d, want %d", code, exitOK)
	}
	if want := alpha + "\n"; out != want {
		t.Errorf("mr shell = %q, want %q", out, want)
	}

	out, _ = runMr(t, dir, "ls")
	if strings.Contains(out, "beta") {
		t.Errorf("mr ls = %q, deleted repo still listed", out)
	}
	if _, code := runMr(t, dir, "rm", "beta"); code != exitOK {
		t.Errorf("mr rm of deleted repo exit = %d, want %d", code, exitOK)
	}
}
