// Package static provides non-interactive terminal output components.
//
// This package renders the borderless tables used by listing commands
// such as "mr group ll" and "mr flags ll".
package static

import (
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"

	"github.com/raphi011/mr/internal/registry"
	"github.com/raphi011/mr/internal/ui/styles"
)

// RenderTable creates a formatted table with proper column alignment.
// Headers and rows are rendered using lipgloss/table which automatically
// calculates column widths based on content. No borders are rendered.
func RenderTable(headers []string, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	var output strings.Builder

	t := table.New().
		Headers(headers...).
		Rows(rows...).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		BorderRow(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styles.HeaderStyle.PaddingRight(2)
			}
			return lipgloss.NewStyle().PaddingRight(2)
		})

	output.WriteString(t.String())
	output.WriteString("\n")

	return output.String()
}

// GroupRows returns one row per group: name, member list and path.
func GroupRows(groups []registry.Group) [][]string {
	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.Name, strings.Join(g.Repos, " "), g.Path})
	}
	return rows
}

// FlagRows returns one row per repo that has custom git flags.
func FlagRows(repos []registry.Repo) [][]string {
	var rows [][]string
	for _, r := range repos {
		if len(r.Flags) == 0 {
			continue
		}
		rows = append(rows, []string{r.Name, strings.Join(r.Flags, " ")})
	}
	return rows
}
