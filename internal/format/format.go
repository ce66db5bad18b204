package format

import (
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/raphi011/mr/internal/config"
	"github.com/raphi011/mr/internal/status"
)

const (
	headWidth   = 10
	branchWidth = 18
)

// ansiColors maps config color names to ANSI palette indexes.
var ansiColors = map[string]string{
	"black":  "0",
	"red":    "1",
	"green":  "2",
	"yellow": "3",
	"blue":   "4",
	"purple": "5",
	"cyan":   "6",
	"white":  "7",
}

var (
	pathStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(ansiColors["cyan"]))
	mainStyle = lipgloss.NewStyle().Underline(true)
)

// Style returns the lipgloss style for a config color name such as "red"
// or "b_red". Unknown names yield an unstyled style.
func Style(name string) lipgloss.Style {
	base, bold := strings.CutPrefix(name, "b_")
	code, ok := ansiColors[base]
	if !ok {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(code)).Bold(bold)
}

// Formatter renders status reports as aligned lines.
type Formatter struct {
	Symbols map[string]string // state -> glyph
	Colors  map[string]string // relation -> color name
	Items   []string          // info items in display order
	NoColor bool              // leave the branch item uncolored
}

// New returns a Formatter for the given config.
func New(cfg *config.Config, noColor bool) *Formatter {
	return &Formatter{
		Symbols: cfg.Symbols,
		Colors:  cfg.Colors,
		Items:   cfg.Info,
		NoColor: noColor,
	}
}

// NameWidth is the width of the name column: the widest name plus one.
func NameWidth(reports []status.Report) int {
	w := 0
	for _, r := range reports {
		w = max(w, runewidth.StringWidth(r.Repo.Name))
	}
	return w + 1
}

// Lines renders one line per report, in the given order.
func (f *Formatter) Lines(reports []status.Report) []string {
	width := NameWidth(reports)
	lines := make([]string, len(reports))
	for i, r := range reports {
		lines[i] = f.Line(r, width)
	}
	return lines
}

// Line renders a single report with the name padded to width.
func (f *Formatter) Line(r status.Report, width int) string {
	name := r.Repo.Name
	if r.Repo.IsMain() {
		name = mainStyle.Render(name)
	}
	pad := max(width-ansi.StringWidth(name), 0)

	items := make([]string, 0, len(f.Items))
	for _, item := range f.Items {
		items = append(items, f.item(item, r))
	}
	return name + strings.Repeat(" ", pad) + strings.Join(items, " ")
}

func (f *Formatter) item(item string, r status.Report) string {
	switch item {
	case "branch":
		return f.Branch(r.Info.Head, r.Status)
	case "branch_name":
		return r.Info.Head
	case "commit_msg":
		return r.Info.CommitMsg
	case "commit_time":
		return "(" + r.Info.CommitTime + ")"
	case "path":
		return pathStyle.Render(r.Repo.Path)
	}
	return ""
}

// Branch renders the head name and status symbols, padded and colored by
// the repo's relation to its upstream.
func (f *Formatter) Branch(head string, st status.Status) string {
	var flags strings.Builder
	if st.Dirty {
		flags.WriteString(f.Symbols["dirty"])
	}
	if st.Staged {
		flags.WriteString(f.Symbols["staged"])
	}
	if st.Stashed {
		flags.WriteString(f.Symbols["stashed"])
	}
	if st.Untracked {
		flags.WriteString(f.Symbols["untracked"])
	}
	flags.WriteString(f.Symbols[string(st.Relation)])

	info := runewidth.FillRight(runewidth.FillRight(head, headWidth)+" ["+flags.String()+"]", branchWidth)
	if f.NoColor || st.Relation == status.Unknown {
		return info
	}
	return Style(f.Colors[string(st.Relation)]).Render(info)
}

// NewWriter wraps w so styled output matches what the destination supports.
// With noColor set, colors are stripped but text decoration is kept.
func NewWriter(w io.Writer, noColor bool) *colorprofile.Writer {
	cw := colorprofile.NewWriter(w, os.Environ())
	if noColor && cw.Profile > colorprofile.ASCII {
		cw.Profile = colorprofile.ASCII
	}
	return cw
}
