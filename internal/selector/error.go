package selector

import (
	"fmt"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/raphi011/mr/internal/registry"
)

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// Error is a selector or usage error. Commands exit with status 2 on it.
type Error struct {
	Msg         string
	Suggestions []string
}

func (e *Error) Error() string {
	if len(e.Suggestions) == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (did you mean %s?)", e.Msg, strings.Join(e.Suggestions, ", "))
}

// unknownName builds an Error for a token that names neither a repo nor a group.
func unknownName(token string, snap *registry.Snapshot) *Error {
	return &Error{
		Msg:         fmt.Sprintf("unknown repo or group %q", token),
		Suggestions: Suggest(token, append(snap.RepoNames(), snap.GroupNames()...)),
	}
}

// Suggest returns up to three candidates that fuzzy-match token, best first.
func Suggest(token string, candidates []string) []string {
	if token == "" {
		return nil
	}
	matches := fuzzy.Find(token, candidates)
	var out []string
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}
