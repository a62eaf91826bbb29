package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/state"
)

// selectionWidth is the marker gutter ahead of the left pinned columns.
const selectionWidth = 2

// tabState is the per-list cursor state kept by the console.
type tabState struct {
	col      int // focused column, index into the declared columns
	scroll   int // first unpinned column shown
	selected int // selected row on the current page
}

// formatCell cuts or pads text to exactly width cells, keeping the last
// cell blank as the column gap. Normal density adds a leading space.
func formatCell(text string, width int, density layout.Density) string {
	inner := width - 1
	if density == layout.Normal {
		inner--
	}
	if inner <= 0 {
		return strings.Repeat(" ", max(width, 0))
	}
	text = truncate(text, inner)
	if density == layout.Normal {
		text = " " + text
	}
	return padRight(text, width)
}

// sortIndicator marks the column the list is sorted by.
func sortIndicator(s criteria.Sort, column string) string {
	if s.Field != column {
		return ""
	}
	if s.Direction == criteria.Desc {
		return " ▼"
	}
	return " ▲"
}

// tableFrame lays out one render of a table: the columns shown and the
// blank filler that pushes right pins against the right edge.
type tableFrame struct {
	left, middle, right []layout.Placed
	filler              int
}

func frameFor(columns []layout.Column, l layout.ColumnLayout, width, scroll int) tableFrame {
	placed := layout.Project(columns, l, selectionWidth)
	shown := layout.Window(placed, width-selectionWidth, scroll, 0)
	var f tableFrame
	used := selectionWidth
	for _, p := range shown {
		used += p.Width
		switch p.Pin {
		case layout.Left:
			f.left = append(f.left, p)
		case layout.Right:
			f.right = append(f.right, p)
		default:
			f.middle = append(f.middle, p)
		}
	}
	f.filler = max(width-used, 0)
	return f
}

func (f tableFrame) each(fn func(layout.Placed)) {
	for _, p := range f.left {
		fn(p)
	}
	for _, p := range f.middle {
		fn(p)
	}
}

func (f tableFrame) eachRight(fn func(layout.Placed)) {
	for _, p := range f.right {
		fn(p)
	}
}

// renderTable renders the header and the visible rows of a tab into at most
// height lines of width cells.
func (m Model) renderTable(tab Tab, v tabView, ts *tabState, width, height int, bgColor string) string {
	if height <= 0 || width <= 0 {
		return ""
	}
	styles := m.theme.Styles()
	bg := NewBgStyle(bgColor)
	table := tab.columns()
	l := table.Layout()
	columns := table.Columns()
	frame := frameFor(columns, l, width, ts.scroll)

	focusedID := ""
	if ts.col >= 0 && ts.col < len(columns) {
		focusedID = columns[ts.col].ID
	}

	var lines []string

	// Header
	var hb strings.Builder
	hb.WriteString(bg.Spaces(selectionWidth))
	header := func(p layout.Placed) {
		style := styles.MutedText.Bold(true)
		if p.ID == focusedID {
			style = styles.AccentText.Bold(true).Underline(true)
		}
		hb.WriteString(bg.Cell(formatCell(p.Title+sortIndicator(v.Criteria.Sort, p.ID), p.Width, l.Density), style))
	}
	frame.each(header)
	hb.WriteString(bg.Spaces(frame.filler))
	frame.eachRight(header)
	lines = append(lines, hb.String())
	if l.Density == layout.Normal {
		lines = append(lines, bg.Render(strings.Repeat("─", width), styles.FaintText))
	}

	if msg := emptyMessage(v); msg != "" {
		style := styles.MutedText
		if v.Phase == state.PhaseError {
			style = styles.DangerText
		}
		lines = append(lines, "", lipgloss.PlaceHorizontal(width, lipgloss.Center, bg.Render(msg, style)))
		return strings.Join(lines, "\n")
	}

	visible := max(height-len(lines), 0)
	first := 0
	if ts.selected >= visible && visible > 0 {
		first = ts.selected - visible + 1
	}
	for i := first; i < len(v.Rows) && i < first+visible; i++ {
		lines = append(lines, m.renderRow(v.Rows[i], frame, l.Density, i == ts.selected, v.Stale, bgColor))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row dashboard.Row, frame tableFrame, density layout.Density, selected, stale bool, bgColor string) string {
	styles := m.theme.Styles()
	style := styles.Text
	marker := "  "
	if selected {
		bgColor = m.theme.SelectionBg
		style = lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.SelectionText))
		marker = "▸ "
	}
	if stale {
		style = styles.FaintText
	}
	bg := NewBgStyle(bgColor)

	var b strings.Builder
	b.WriteString(bg.Cell(marker, styles.AccentText))
	cell := func(p layout.Placed) {
		b.WriteString(bg.Cell(formatCell(row.Cell(p.ID), p.Width, density), style))
	}
	frame.each(cell)
	b.WriteString(bg.Spaces(frame.filler))
	frame.eachRight(cell)
	return b.String()
}

// emptyMessage is the text shown in place of rows, or "" when there are rows
// to show.
func emptyMessage(v tabView) string {
	if len(v.Rows) > 0 {
		return ""
	}
	switch v.Phase {
	case state.PhaseIdle:
		return "Press Enter to search"
	case state.PhaseLoading:
		return "Loading…"
	case state.PhaseError:
		if v.Err != nil {
			return v.Err.Error()
		}
		return "Request failed"
	default:
		if v.Criteria.Query != "" {
			return "No matches for “" + v.Criteria.Query + "”"
		}
		return "No rows"
	}
}

// revealColumn scrolls the table so the focused column is on screen.
func (m Model) revealColumn(tab Tab, ts *tabState) {
	table := tab.columns()
	columns := table.Columns()
	if ts.col < 0 || ts.col >= len(columns) {
		return
	}
	l := table.Layout()
	id := columns[ts.col].ID
	if !l.Visible(id) || l.PinnedSide(id) != layout.Unpinned {
		return
	}

	placed := layout.Project(columns, l, selectionWidth)
	idx := 0
	for _, p := range placed {
		if p.Pin != layout.Unpinned {
			continue
		}
		if p.ID == id {
			break
		}
		idx++
	}
	if idx < ts.scroll {
		ts.scroll = idx
		return
	}
	width := m.tableWidth() - selectionWidth
	for ts.scroll < idx {
		if windowHas(layout.Window(placed, width, ts.scroll, 0), id) {
			return
		}
		ts.scroll++
	}
}

func windowHas(placed []layout.Placed, id string) bool {
	for _, p := range placed {
		if p.ID == id {
			return true
		}
	}
	return false
}

// tableWidth is the inner width of the table box.
func (m Model) tableWidth() int {
	return max(m.width-2, 0)
}
