// Package selector turns command line tokens into the set of repos a command runs on.
package selector

import (
	"slices"
	"strings"

	"github.com/raphi011/mr/internal/registry"
)

// WorkingSet is the deduplicated set of repos selected for one invocation, sorted by name.
type WorkingSet []registry.Repo

// Names returns the repo names in order.
func (w WorkingSet) Names() []string {
	names := make([]string, len(w))
	for i, r := range w {
		names[i] = r.Name
	}
	return names
}

// Resolve consumes leading tokens that name a repo or group and returns the
// selected repos plus the tokens after the first unrecognized one.
//
// With no selector tokens the active context group is used; with no context
// either, every repo in the snapshot is selected.
func Resolve(tokens []string, snap *registry.Snapshot) (WorkingSet, []string) {
	n := 0
	for n < len(tokens) && (snap.IsRepo(tokens[n]) || snap.IsGroup(tokens[n])) {
		n++
	}
	return expand(tokens[:n], snap), tokens[n:]
}

// ResolveCommand is Resolve for pass-through commands: at least one
// non-selector token must remain.
func ResolveCommand(tokens []string, snap *registry.Snapshot) (WorkingSet, []string, error) {
	set, rest := Resolve(tokens, snap)
	if len(rest) == 0 {
		return nil, nil, &Error{Msg: "missing command after repo and group names"}
	}
	return set, rest, nil
}

// ResolveQuoted is Resolve for quote mode: exactly one token, the quoted
// command string, must remain.
func ResolveQuoted(tokens []string, snap *registry.Snapshot) (WorkingSet, string, error) {
	set, rest := Resolve(tokens, snap)
	switch len(rest) {
	case 1:
		return set, rest[0], nil
	case 0:
		return nil, "", &Error{Msg: "missing quoted command after repo and group names"}
	default:
		return nil, "", &Error{Msg: "quote mode expects exactly one command string, got " +
			strings.Join(quoteAll(rest), " ")}
	}
}

// ResolveNames treats every token as a selector. Unknown names are an error
// with suggestions. With no tokens the context or, if allowAll is set, every
// repo is selected; otherwise a selector is required.
func ResolveNames(tokens []string, snap *registry.Snapshot, allowAll bool) (WorkingSet, error) {
	for _, tok := range tokens {
		if !snap.IsRepo(tok) && !snap.IsGroup(tok) {
			return nil, unknownName(tok, snap)
		}
	}
	if len(tokens) == 0 {
		if _, ok := snap.Context(); !ok && !allowAll {
			return nil, &Error{Msg: "at least one repo or group is required"}
		}
	}
	return expand(tokens, snap), nil
}

// expand maps selectors to repos, applying the context and whole-registry defaults.
func expand(selectors []string, snap *registry.Snapshot) WorkingSet {
	if len(selectors) == 0 {
		if ctx, ok := snap.Context(); ok {
			selectors = []string{ctx}
		}
	}
	if len(selectors) == 0 {
		return WorkingSet(snap.Repos())
	}

	seen := map[string]registry.Repo{}
	for _, sel := range selectors {
		if r, ok := snap.Repo(sel); ok {
			seen[r.Name] = r
			continue
		}
		for _, r := range snap.Members(sel) {
			seen[r.Name] = r
		}
	}

	set := make(WorkingSet, 0, len(seen))
	for _, r := range seen {
		set = append(set, r)
	}
	slices.SortFunc(set, func(a, b registry.Repo) int { return strings.Compare(a.Name, b.Name) })
	return set
}

func quoteAll(tokens []string) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = "'" + t + "'"
	}
	return out
}
