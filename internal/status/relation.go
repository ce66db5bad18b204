package status

// Relation is how a local branch relates to its upstream.
type Relation string

const (
	Unknown     Relation = ""
	NoRemote    Relation = "no_remote"
	InSync      Relation = "in_sync"
	Diverged    Relation = "diverged"
	LocalAhead  Relation = "local_ahead"
	RemoteAhead Relation = "remote_ahead"
)

// Relations lists every known relation.
var Relations = []Relation{NoRemote, InSync, Diverged, LocalAhead, RemoteAhead}

// noUpstreamCode is the exit status of "git diff @{u}" when the branch has
// no upstream. git does not document it; a git release that changes it
// breaks no_remote detection.
const noUpstreamCode = 128

// Decide maps the exit codes of three quiet diffs to a relation:
// ur compares upstream with local, uc upstream with the merge base and
// lc local with the merge base. uc and lc are only consulted when the
// earlier probes left the answer open.
func Decide(ur, uc, lc int) Relation {
	switch {
	case ur == noUpstreamCode:
		return NoRemote
	case ur == 0:
		return InSync
	case uc == 0:
		return LocalAhead
	case lc == 0:
		return RemoteAhead
	default:
		return Diverged
	}
}
