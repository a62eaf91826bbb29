package ui

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/fauna/internal/logging"
	"github.com/five82/fauna/internal/logtail"
)

// Log refresh constants
const (
	logRefreshInterval = 2 * time.Second
	logBufferLimit     = 2000
)

// logLevels are the floors the level filter cycles through.
var logLevels = []slog.Level{logging.LevelTrace, slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

// logState holds the log pane state.
type logState struct {
	rawLines []string
	follow   bool
	err      error
	floor    int // index into logLevels
	ticking  bool

	// seq identifies the newest read; batches from older reads are dropped.
	seq uint64

	searchActive   bool
	searchQuery    string
	searchRegex    *regexp.Regexp
	searchInput    textinput.Model
	searchMatches  []int
	searchMatchIdx int
}

type logTickMsg time.Time

type logBatchMsg struct {
	seq   uint64
	lines []string
	err   error
}

func newLogState() logState {
	ti := textinput.New()
	ti.Placeholder = "Search logs..."
	ti.CharLimit = 100
	ti.Cursor.SetMode(cursor.CursorStatic)
	return logState{follow: true, searchInput: ti}
}

func logTickCmd() tea.Cmd {
	return tea.Tick(logRefreshInterval, func(t time.Time) tea.Msg {
		return logTickMsg(t)
	})
}

// fetchLogs reads the tail of the log file at the current level floor.
func (m *Model) fetchLogs() tea.Cmd {
	m.logState.seq++
	seq := m.logState.seq
	path := m.logPath
	floor := logLevels[m.logState.floor]
	return func() tea.Msg {
		lines, err := logtail.Read(path, logBufferLimit)
		if err != nil {
			return logBatchMsg{seq: seq, err: err}
		}
		return logBatchMsg{seq: seq, lines: logtail.Filter(lines, floor)}
	}
}

// toggleLogs shows or hides the log pane. Showing it reads the file at once
// and starts the refresh tick unless one is already pending.
func (m Model) toggleLogs() (tea.Model, tea.Cmd) {
	m.showLogs = !m.showLogs
	if !m.showLogs {
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		return m, nil
	}
	cmds := []tea.Cmd{m.fetchLogs()}
	if !m.logState.ticking {
		m.logState.ticking = true
		cmds = append(cmds, logTickCmd())
	}
	m.updateLogViewport()
	return m, tea.Batch(cmds...)
}

func (m Model) handleLogTick() (tea.Model, tea.Cmd) {
	if !m.showLogs {
		m.logState.ticking = false
		return m, nil
	}
	cmd := m.fetchLogs()
	return m, tea.Batch(cmd, logTickCmd())
}

func (m Model) handleLogBatch(msg logBatchMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.logState.seq {
		return m, nil
	}
	m.logState.err = msg.err
	if msg.err == nil {
		m.logState.rawLines = msg.lines
		m.findSearchMatches()
	}
	m.updateLogViewport()
	return m, nil
}

// updateLogViewport sizes the viewport and refreshes its content.
func (m *Model) updateLogViewport() {
	m.logViewport.Width = max(m.width-2, 1)
	m.logViewport.Height = max(m.height-5, 1)
	m.logViewport.Style = lipgloss.NewStyle().Background(lipgloss.Color(m.theme.FocusBg))
	m.logViewport.SetContent(m.renderLogContent())
	if m.logState.follow {
		m.logViewport.GotoBottom()
	}
}

// renderLogs renders the log pane in place of the list.
func (m Model) renderLogs() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	title := "Log"
	if m.logState.floor > 0 {
		title = fmt.Sprintf("Log (%s and above)", levelName(logLevels[m.logState.floor]))
	}
	b.WriteString(m.renderTitledBox(title, m.logViewport.View(), m.width, max(m.height-3, 3), !m.logState.searchActive))
	b.WriteString("\n")
	b.WriteString(m.renderLogStatus())
	b.WriteString("\n")
	b.WriteString(m.renderLogCommandBar())
	return b.String()
}

// renderLogStatus shows the search state, or the file and follow mode.
func (m Model) renderLogStatus() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	ls := m.logState

	var content string
	switch {
	case ls.searchActive:
		content = bg.Render("/", styles.AccentText) + ls.searchInput.View()
	case ls.searchRegex != nil && len(ls.searchMatches) > 0:
		content = bg.Render("/"+ls.searchQuery, styles.AccentText) +
			bg.Render(" - ", styles.FaintText) +
			bg.Render(fmt.Sprintf("%d/%d", ls.searchMatchIdx+1, len(ls.searchMatches)), styles.WarningText) +
			bg.Render(" - n next, N previous, esc clears", styles.FaintText)
	case ls.searchRegex != nil:
		content = bg.Render("Pattern not found: "+ls.searchQuery, styles.DangerText)
	case ls.err != nil:
		content = bg.Render(truncate(ls.err.Error(), max(m.width-2, 10)), styles.DangerText)
	default:
		follow := "off"
		if ls.follow {
			follow = "on"
		}
		parts := []string{
			bg.Render(fmt.Sprintf("%d lines", len(ls.rawLines)), styles.FaintText),
			bg.Render("follow "+follow, styles.MutedText),
			bg.Render("level≥"+levelName(logLevels[ls.floor]), styles.MutedText),
			bg.Render(truncateMiddle(m.logPath, 48), styles.InfoText),
		}
		content = bg.Join(parts, "  ")
	}
	return styles.Header.Width(m.width).Render(content)
}

func (m Model) renderLogCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	bindings := []key.Binding{m.keys.Search, m.keys.NextMatch, m.keys.Follow, m.keys.LogLevel, m.keys.ToggleLogs, m.keys.Quit}
	if m.logState.searchActive {
		bindings = []key.Binding{m.keys.Submit, m.keys.Escape}
	}
	colon := bg.Sep(":")
	segments := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}
	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// renderLogContent renders numbered lines with the active match
// highlighted.
func (m *Model) renderLogContent() string {
	bg := NewBgStyle(m.theme.FocusBg)
	styles := m.theme.Styles()
	width := m.logViewport.Width

	if len(m.logState.rawLines) == 0 {
		return bg.FillLine(bg.Render("No log entries", styles.MutedText), width)
	}

	matchSet := make(map[int]bool, len(m.logState.searchMatches))
	for _, idx := range m.logState.searchMatches {
		matchSet[idx] = true
	}
	activeMatchLine := -1
	if m.logState.searchMatchIdx < len(m.logState.searchMatches) {
		activeMatchLine = m.logState.searchMatches[m.logState.searchMatchIdx]
	}

	var b strings.Builder
	for i, line := range m.logState.rawLines {
		gutter := fmt.Sprintf("%4d │ ", i+1)
		var content string
		switch {
		case i == activeMatchLine:
			hl := lipgloss.NewStyle().
				Background(lipgloss.Color(m.theme.Warning)).
				Foreground(lipgloss.Color(m.theme.Background))
			content = hl.Render(gutter + line)
		case matchSet[i]:
			content = bg.Render(gutter, styles.AccentText) + bg.Render(line, styles.AccentText)
		default:
			content = bg.Render(gutter, styles.FaintText) + m.colorizeLogLine(line, styles, bg)
		}
		b.WriteString(bg.FillLine(content, width))
		if i < len(m.logState.rawLines)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

var logRecordRe = regexp.MustCompile(`^time=(\S+) level=(\S+) (.*)$`)

// colorizeLogLine styles the time and level attributes of a slog text
// record. Continuation lines render as plain text.
func (m *Model) colorizeLogLine(line string, styles Styles, bg BgStyle) string {
	parts := logRecordRe.FindStringSubmatch(line)
	if parts == nil {
		return bg.Render(line, styles.Text)
	}
	levelStyle := styles.Text
	if lvl, ok := logtail.Level(line); ok {
		levelStyle = logLevelStyle(lvl, styles)
	}
	return bg.Render(parts[1], styles.FaintText) + bg.Space() +
		bg.Render(parts[2], levelStyle.Bold(true)) + bg.Space() +
		bg.Render(parts[3], styles.Text)
}

func logLevelStyle(lvl slog.Level, styles Styles) lipgloss.Style {
	switch {
	case lvl >= slog.LevelError:
		return styles.DangerText
	case lvl >= slog.LevelWarn:
		return styles.WarningText
	case lvl >= slog.LevelInfo:
		return styles.SuccessText
	case lvl >= slog.LevelDebug:
		return styles.InfoText
	default:
		return styles.FaintText
	}
}

func levelName(lvl slog.Level) string {
	if lvl <= logging.LevelTrace {
		return "TRACE"
	}
	return lvl.String()
}

// handleLogsKey processes keys while the log pane is shown.
func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.logState.searchActive {
		return m.handleLogSearchInput(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.ToggleLogs):
		return m.toggleLogs()

	case key.Matches(msg, m.keys.Follow):
		m.logState.follow = !m.logState.follow
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.LogLevel):
		m.logState.floor = (m.logState.floor + 1) % len(logLevels)
		m.clearLogSearch()
		cmd := m.fetchLogs()
		return m, cmd

	case key.Matches(msg, m.keys.Search):
		m.logState.searchActive = true
		m.logState.searchInput.SetValue("")
		cmd := m.logState.searchInput.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.NextMatch):
		m.stepSearchMatch(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevMatch):
		m.stepSearchMatch(-1)
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.logState.searchRegex != nil {
			m.clearLogSearch()
			m.updateLogViewport()
			return m, nil
		}
		return m.toggleLogs()

	case key.Matches(msg, m.keys.Top):
		m.logViewport.GotoTop()
		m.logState.follow = false
	case key.Matches(msg, m.keys.Bottom):
		m.logViewport.GotoBottom()
		m.logState.follow = true
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.Up):
		m.logViewport.ScrollUp(1)
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfPageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logViewport.HalfPageUp()
		m.logState.follow = false
	case key.Matches(msg, m.keys.NextPage):
		m.logViewport.PageDown()
		m.logState.follow = false
	case key.Matches(msg, m.keys.PrevPage):
		m.logViewport.PageUp()
		m.logState.follow = false
	}
	return m, nil
}

// handleLogSearchInput edits the log search. Enter compiles the query as a
// case-insensitive pattern; an invalid pattern keeps the input open.
func (m Model) handleLogSearchInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		query := m.logState.searchInput.Value()
		if query == "" {
			m.logState.searchActive = false
			m.logState.searchInput.Blur()
			return m, nil
		}
		re, err := regexp.Compile("(?i)" + query)
		if err != nil {
			return m, nil
		}
		m.logState.searchRegex = re
		m.logState.searchQuery = query
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.findSearchMatches()
		m.scrollToSearchMatch()
		m.updateLogViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		m.logState.searchActive = false
		m.logState.searchInput.Blur()
		m.logState.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.logState.searchInput, cmd = m.logState.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) clearLogSearch() {
	m.logState.searchRegex = nil
	m.logState.searchQuery = ""
	m.logState.searchMatches = nil
	m.logState.searchMatchIdx = 0
}

// findSearchMatches indexes the lines matching the search. The active match
// is kept when it still exists.
func (m *Model) findSearchMatches() {
	m.logState.searchMatches = nil
	if m.logState.searchRegex == nil {
		return
	}
	for i, line := range m.logState.rawLines {
		if m.logState.searchRegex.MatchString(line) {
			m.logState.searchMatches = append(m.logState.searchMatches, i)
		}
	}
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		m.logState.searchMatchIdx = 0
	}
}

func (m *Model) stepSearchMatch(delta int) {
	n := len(m.logState.searchMatches)
	if n == 0 {
		return
	}
	m.logState.searchMatchIdx = (m.logState.searchMatchIdx + delta + n) % n
	m.scrollToSearchMatch()
	m.updateLogViewport()
}

// scrollToSearchMatch centers the active match and stops following.
func (m *Model) scrollToSearchMatch() {
	if m.logState.searchMatchIdx >= len(m.logState.searchMatches) {
		return
	}
	target := m.logState.searchMatches[m.logState.searchMatchIdx]
	m.logState.follow = false
	m.logViewport.SetYOffset(max(target-m.logViewport.Height/2, 0))
}
