package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the console.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Tabs       key.Binding

	// Search
	Search  key.Binding
	Submit  key.Binding
	Escape  key.Binding
	Refresh key.Binding
	Back    key.Binding

	// Paging
	NextPage     key.Binding
	PrevPage     key.Binding
	FirstPage    key.Binding
	LastPage     key.Binding
	PageSizeUp   key.Binding
	PageSizeDown key.Binding

	// Rows and columns
	Up        key.Binding
	Down      key.Binding
	ColLeft   key.Binding
	ColRight  key.Binding
	Sort      key.Binding
	Visible   key.Binding
	Pin       key.Binding
	Narrower  key.Binding
	Wider     key.Binding
	Density   key.Binding
	ResetCols key.Binding

	// Log pane
	ToggleLogs   key.Binding
	Follow       key.Binding
	LogLevel     key.Binding
	NextMatch    key.Binding
	PrevMatch    key.Binding
	Top          key.Binding
	Bottom       key.Binding
	HalfPageDown key.Binding
	HalfPageUp   key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next list"),
		),
		PrevTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous list"),
		),
		Tabs: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-5", "Jump to list"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Edit search"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Search now"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Leave search"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Refresh / retry"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "backspace"),
			key.WithHelp("b", "Back"),
		),

		NextPage: key.NewBinding(
			key.WithKeys("n", "pgdown", "right"),
			key.WithHelp("n/pgdn", "Next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("p", "pgup", "left"),
			key.WithHelp("p/pgup", "Previous page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home"),
			key.WithHelp("home", "First page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end"),
			key.WithHelp("end", "Last page"),
		),
		PageSizeUp: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "More rows per page"),
		),
		PageSizeDown: key.NewBinding(
			key.WithKeys("-", "_"),
			key.WithHelp("-", "Fewer rows per page"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		ColLeft: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "Focus previous column"),
		),
		ColRight: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "Focus next column"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Sort by column"),
		),
		Visible: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "Show/hide column"),
		),
		Pin: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "Pin left/right/off"),
		),
		Narrower: key.NewBinding(
			key.WithKeys("<", ","),
			key.WithHelp("<", "Narrower column"),
		),
		Wider: key.NewBinding(
			key.WithKeys(">", "."),
			key.WithHelp(">", "Wider column"),
		),
		Density: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "Toggle density"),
		),
		ResetCols: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reset columns"),
		),

		ToggleLogs: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "Show/hide log"),
		),
		Follow: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "Follow log"),
		),
		LogLevel: key.NewBinding(
			key.WithKeys("F"),
			key.WithHelp("F", "Cycle level filter"),
		),
		NextMatch: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "Next match"),
		),
		PrevMatch: key.NewBinding(
			key.WithKeys("N"),
			key.WithHelp("N", "Previous match"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "Top of log"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "Bottom of log"),
		),
		HalfPageDown: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "Half page down"),
		),
		HalfPageUp: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "Half page up"),
		),
	}
}

// ShortHelp returns key bindings for the command bar.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.NextPage, k.PrevPage, k.Sort, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay, one group per section.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tabs, k.NextTab, k.PrevTab},
		{k.Search, k.Submit, k.Escape, k.Refresh, k.Back},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.PageSizeUp, k.PageSizeDown},
		{k.Up, k.Down, k.ColLeft, k.ColRight, k.Sort},
		{k.Visible, k.Pin, k.Narrower, k.Wider, k.Density, k.ResetCols},
		{k.ToggleLogs, k.Follow, k.LogLevel, k.NextMatch, k.PrevMatch, k.Top, k.Bottom},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
