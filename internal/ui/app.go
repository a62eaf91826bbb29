package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/prefs"
	"github.com/five82/fauna/internal/search"
)

// Options configures the UI.
type Options struct {
	Tabs   []Tab
	Active int
	// Initial replaces the stored criteria of the active tab at mount.
	Initial *criteria.Criteria
	// Search is the shared search box; nil builds one with the default delay.
	Search *search.Input
	// Store keeps the theme choice; nil keeps it for the session only.
	Store     prefs.Store
	ThemeName string
	// Refresh re-requests the active list at this interval; zero disables it.
	Refresh time.Duration
	APIURL  string
	// LogFile is shown in the log pane.
	LogFile string
	Logger  *slog.Logger
}

// Model is the root application state for Bubble Tea.
type Model struct {
	store   prefs.Store
	logger  *slog.Logger
	keys    keyMap
	apiURL  string
	refresh time.Duration

	tabs    []Tab
	active  int
	initial *criteria.Criteria
	cursors map[string]*tabState

	search    *search.Input
	searchBox textinput.Model
	searching bool

	logPath     string
	showLogs    bool
	logViewport viewport.Model
	logState    logState

	theme    Theme
	width    int
	height   int
	ready    bool
	showHelp bool
}

// New creates the console model. A theme saved in the store wins over
// ThemeName.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	themeName := opts.ThemeName
	if opts.Store != nil {
		if saved, ok := opts.Store.Get(ThemeKey); ok && saved != "" {
			themeName = saved
		}
	}

	in := opts.Search
	if in == nil {
		in = search.New(search.DefaultDelay)
	}

	box := textinput.New()
	box.Prompt = ""
	box.Placeholder = "name, code, biome…"
	box.CharLimit = 200
	box.Cursor.SetMode(cursor.CursorStatic)

	active := opts.Active
	if active < 0 || active >= len(opts.Tabs) {
		active = 0
	}

	cursors := make(map[string]*tabState, len(opts.Tabs))
	for _, tab := range opts.Tabs {
		cursors[tab.ID()] = &tabState{}
	}

	return Model{
		store:     opts.Store,
		logger:    logger,
		keys:      DefaultKeyMap(),
		apiURL:    opts.APIURL,
		refresh:   opts.Refresh,
		tabs:      opts.Tabs,
		active:    active,
		initial:   opts.Initial,
		cursors:   cursors,
		search:    in,
		searchBox: box,
		theme:     GetTheme(themeName),

		logPath:     opts.LogFile,
		logViewport: viewport.New(0, 0),
		logState:    newLogState(),
	}
}

// Init implements tea.Model. It mounts the active list.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if tab := m.activeTab(); tab != nil {
		cmds = append(cmds, tab.mount(m.initial))
		m.syncSearch()
	}
	if m.refresh > 0 {
		cmds = append(cmds, refreshCmd(m.refresh))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.searchBox.Width = max(m.width-6, 10)
		m.ready = true
		if m.showLogs {
			m.updateLogViewport()
		}
		return m, nil

	case search.SettleMsg:
		settled, ok := m.search.Update(msg)
		tab := m.activeTab()
		if !ok || tab == nil {
			return m, nil
		}
		return m, tab.dispatch(criteria.SearchSettled{Query: settled.Query})

	case refreshMsg:
		return m.handleRefresh()

	case logTickMsg:
		return m.handleLogTick()

	case logBatchMsg:
		return m.handleLogBatch(msg)
	}

	for _, tab := range m.tabs {
		if tab.handle(msg) {
			m.clampSelection(tab)
			return m, nil
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showLogs {
		return m.renderLogs()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}
	if m.showLogs {
		return m.handleLogsKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleLogs):
		return m.toggleLogs()
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.store != nil {
			m.store.Set(ThemeKey, m.theme.Name)
		}
		return m, nil
	case key.Matches(msg, m.keys.NextTab):
		return m.activate((m.active + 1) % max(len(m.tabs), 1))
	case key.Matches(msg, m.keys.PrevTab):
		return m.activate((m.active - 1 + len(m.tabs)) % max(len(m.tabs), 1))
	case key.Matches(msg, m.keys.Tabs):
		if idx := int(msg.String()[0] - '1'); idx < len(m.tabs) {
			return m.activate(idx)
		}
		return m, nil
	}

	tab := m.activeTab()
	if tab == nil {
		return m, nil
	}
	if cmd, handled := m.handleListKey(tab, msg); handled {
		return m, cmd
	}
	m.handleColumnKey(tab, msg)
	return m, nil
}

// handleListKey maps keys that change the criteria of the active list.
func (m *Model) handleListKey(tab Tab, msg tea.KeyMsg) (tea.Cmd, bool) {
	limits := tab.limits()
	switch {
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.searchBox.SetValue(m.search.Raw())
		m.searchBox.CursorEnd()
		return m.searchBox.Focus(), true
	case key.Matches(msg, m.keys.Submit):
		return tab.dispatch(criteria.SearchSubmitted{Query: m.search.Commit()}), true
	case key.Matches(msg, m.keys.Refresh):
		return tab.dispatch(criteria.Refresh{}), true
	case key.Matches(msg, m.keys.Back):
		cmd := tab.back()
		m.syncSearch()
		return cmd, true
	case key.Matches(msg, m.keys.NextPage):
		return tab.step(1), true
	case key.Matches(msg, m.keys.PrevPage):
		return tab.step(-1), true
	case key.Matches(msg, m.keys.FirstPage):
		return tab.dispatch(criteria.PageRequested{Page: 0}), true
	case key.Matches(msg, m.keys.LastPage):
		if v := tab.view(); v.Pages > 0 {
			return tab.dispatch(criteria.PageRequested{Page: v.Pages - 1}), true
		}
		return nil, true
	case key.Matches(msg, m.keys.PageSizeUp):
		size := limits.NextPageSize(tab.view().Criteria.PageSize)
		return tab.dispatch(criteria.PageSizeChanged{Size: size}), true
	case key.Matches(msg, m.keys.PageSizeDown):
		size := limits.PrevPageSize(tab.view().Criteria.PageSize)
		return tab.dispatch(criteria.PageSizeChanged{Size: size}), true
	case key.Matches(msg, m.keys.Sort):
		col, ok := m.focusedColumn()
		if !ok || !col.Sortable {
			return nil, true
		}
		return tab.dispatch(criteria.SortToggled{Field: col.ID}), true
	}
	return nil, false
}

// handleColumnKey maps row selection and column layout keys. None of them
// touch the criteria, so none of them fetch.
func (m *Model) handleColumnKey(tab Tab, msg tea.KeyMsg) {
	ts := m.cursor(tab)
	table := tab.columns()
	columns := table.Columns()
	col, hasCol := m.focusedColumn()

	switch {
	case key.Matches(msg, m.keys.Up):
		if ts.selected > 0 {
			ts.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if ts.selected < len(tab.view().Rows)-1 {
			ts.selected++
		}
	case key.Matches(msg, m.keys.ColLeft):
		if ts.col > 0 {
			ts.col--
		}
		m.revealColumn(tab, ts)
	case key.Matches(msg, m.keys.ColRight):
		if ts.col < len(columns)-1 {
			ts.col++
		}
		m.revealColumn(tab, ts)
	case !hasCol:
	case key.Matches(msg, m.keys.Visible):
		table.ToggleVisible(col.ID)
	case key.Matches(msg, m.keys.Pin):
		table.CyclePin(col.ID)
		m.revealColumn(tab, ts)
	case key.Matches(msg, m.keys.Narrower):
		table.Grow(col.ID, -2)
	case key.Matches(msg, m.keys.Wider):
		table.Grow(col.ID, 2)
	case key.Matches(msg, m.keys.Density):
		table.ToggleDensity()
	case key.Matches(msg, m.keys.ResetCols):
		table.Reset()
		ts.scroll = 0
	}
}

// handleSearchKey edits the search box. Every keystroke restarts the
// debounce; Enter submits and Esc settles what was typed.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tab := m.activeTab()
	switch {
	case key.Matches(msg, m.keys.Submit):
		m.searching = false
		m.searchBox.Blur()
		q := m.search.CommitValue(m.searchBox.Value())
		if tab == nil {
			return m, nil
		}
		return m, tab.dispatch(criteria.SearchSubmitted{Query: q})

	case key.Matches(msg, m.keys.Escape):
		m.searching = false
		m.searchBox.Blur()
		q := m.search.CommitValue(m.searchBox.Value())
		if tab == nil {
			return m, nil
		}
		return m, tab.dispatch(criteria.SearchSettled{Query: q})
	}

	before := m.searchBox.Value()
	var cmd tea.Cmd
	m.searchBox, cmd = m.searchBox.Update(msg)
	if after := m.searchBox.Value(); after != before {
		return m, tea.Batch(cmd, m.search.SetRaw(after))
	}
	return m, cmd
}

// activate switches to tab idx, mounting it on first use.
func (m Model) activate(idx int) (tea.Model, tea.Cmd) {
	if idx < 0 || idx >= len(m.tabs) || idx == m.active {
		return m, nil
	}
	m.active = idx
	tab := m.tabs[idx]
	m.logger.Debug("switched list", "list", tab.ID())
	var cmd tea.Cmd
	if !tab.mounted() {
		cmd = tab.mount(nil)
	}
	m.syncSearch()
	return m, cmd
}

// syncSearch makes the search box show the query of the active list,
// dropping any keystroke still waiting to settle.
func (m Model) syncSearch() {
	if tab := m.activeTab(); tab != nil {
		m.search.Reset(tab.view().Criteria.Query)
	}
}

func (m Model) activeTab() Tab {
	if m.active < 0 || m.active >= len(m.tabs) {
		return nil
	}
	return m.tabs[m.active]
}

func (m Model) cursor(tab Tab) *tabState {
	ts, ok := m.cursors[tab.ID()]
	if !ok {
		ts = &tabState{}
		m.cursors[tab.ID()] = ts
	}
	return ts
}

func (m Model) clampSelection(tab Tab) {
	ts := m.cursor(tab)
	n := len(tab.view().Rows)
	if ts.selected >= n {
		ts.selected = max(n-1, 0)
	}
}

// focusedColumn returns the column the cursor is on in the active list.
func (m Model) focusedColumn() (layout.Column, bool) {
	tab := m.activeTab()
	if tab == nil {
		return layout.Column{}, false
	}
	columns := tab.columns().Columns()
	ts := m.cursor(tab)
	if ts.col < 0 || ts.col >= len(columns) {
		return layout.Column{}, false
	}
	return columns[ts.col], true
}

// columnLabel describes a column with its layout state.
func (m Model) columnLabel(col layout.Column) string {
	tab := m.activeTab()
	if tab == nil {
		return col.Title
	}
	l := tab.columns().Layout()
	var tags []string
	if !l.Visible(col.ID) {
		tags = append(tags, "hidden")
	}
	if side := l.PinnedSide(col.ID); side != layout.Unpinned {
		tags = append(tags, "pinned "+side.String())
	}
	if col.Sortable {
		tags = append(tags, "sortable")
	}
	if len(tags) == 0 {
		return col.Title
	}
	return fmt.Sprintf("%s (%s)", col.Title, strings.Join(tags, ", "))
}

// renderMain renders the full console.
func (m Model) renderMain() string {
	tab := m.activeTab()
	if tab == nil {
		return m.renderHeader()
	}
	v := tab.view()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderSearchBar())
	b.WriteString("\n")

	boxHeight := max(m.height-4, 3)
	content := m.renderTable(tab, v, m.cursor(tab), m.tableWidth(), boxHeight-2, m.theme.FocusBg)
	b.WriteString(m.renderTitledBox(tab.Title(), content, m.width, boxHeight, !m.searching))
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine(v))
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	return b.String()
}

// renderTitledBox draws a box with title embedded in the top border.
func (m Model) renderTitledBox(title, content string, width, height int, focused bool) string {
	borderColorStr, bgColorStr := m.theme.Border, m.theme.SurfaceAlt
	if focused {
		borderColorStr, bgColorStr = m.theme.BorderFocus, m.theme.FocusBg
	}
	bg := NewBgStyle(bgColorStr)
	borderStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(borderColorStr))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.Text))

	innerWidth := max(width-2, 0)
	title = truncate(title, max(innerWidth-4, 0))
	titleLen := lipgloss.Width(title)
	leftPad := max((innerWidth-titleLen-2)/2, 0)
	rightPad := max(innerWidth-titleLen-2-leftPad, 0)

	top := bg.Render("┌", borderStyle) +
		bg.Render(strings.Repeat("─", leftPad), borderStyle) +
		bg.Render(" "+title+" ", titleStyle) +
		bg.Render(strings.Repeat("─", rightPad), borderStyle) +
		bg.Render("┐", borderStyle)
	bottom := bg.Render("└", borderStyle) +
		bg.Render(strings.Repeat("─", innerWidth), borderStyle) +
		bg.Render("┘", borderStyle)

	lines := strings.Split(content, "\n")
	rows := make([]string, 0, max(height-2, 0))
	for i := 0; i < height-2; i++ {
		var line string
		if i < len(lines) {
			line = lines[i]
		}
		rows = append(rows, bg.Render("│", borderStyle)+bg.FillLine(line, innerWidth)+bg.Render("│", borderStyle))
	}
	return top + "\n" + strings.Join(rows, "\n") + "\n" + bottom
}

// Run starts the Bubble Tea program and blocks until the user quits or ctx
// is cancelled.
func Run(ctx context.Context, opts Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
