package main

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	oddRowStyle = lipgloss.NewStyle().Faint(false).
			PaddingLeft(1).PaddingRight(1)
	evenRowStyle = lipgloss.NewStyle().Faint(true).
			PaddingLeft(1).PaddingRight(1)

	titleStyle = lipgloss.NewStyle().Bold(true).Padding(1, 4, 1, 4)
)

func newPlainTable(alignments ...lipgloss.Position) *lgtable.Table {
	return lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				// Even row style.
				s = oddRowStyle
			default:
				// Odd row style
				s = evenRowStyle
			}
			alignment := lipgloss.Left
			if col < len(alignments) {
				alignment = alignments[col]
			} else if len(alignments) > 0 {
				alignment = alignments[len(alignments)-1]
			}
			s = s.Align(alignment)
			return
		})
}

// backendsTable wraps the lipgloss table to tint each column with a fixed
// color, and one designated column per-row with the color of the row's
// backend.
type backendsTable struct {
	Table *lgtable.Table

	// colColors holds one color per column, "" for uncolored columns.
	colColors []string

	// backendCol is the index of the column colored per-row, -1 for none.
	backendCol int

	count     int
	rowColors map[int]string
}

func newBackendsTable(headers []string, colColors []string, backendCol int) *backendsTable {
	t := &backendsTable{
		colColors:  colColors,
		backendCol: backendCol,
		rowColors:  make(map[int]string),
	}
	t.Table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		StyleFunc(func(row, col int) (s lipgloss.Style) {
			if row < 0 {
				s = headerRowStyle
				return
			}
			switch {
			case row%2 == 0:
				s = oddRowStyle
			default:
				s = evenRowStyle
			}
			var color string
			if col < len(t.colColors) {
				color = t.colColors[col]
			}
			if col == t.backendCol {
				color = t.rowColors[row]
			}
			if color != "" {
				s = s.Foreground(lipgloss.Color(color))
			}
			return
		})
	t.Table.Headers(headers...)
	return t
}

// Row adds a row whose backend column is tinted with backendColor, "" for
// no tinting.
func (t *backendsTable) Row(backendColor string, cells ...string) {
	if backendColor != "" {
		t.rowColors[t.count] = backendColor
	}
	t.Table.Row(cells...)
	t.count++
}

func (t *backendsTable) Render() string {
	return t.Table.Render()
}
