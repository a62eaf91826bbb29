package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/state"
)

// maxBackoff caps the auto-refresh interval while the API keeps failing.
const maxBackoff = 5 * time.Minute

type refreshMsg time.Time

// refreshDelay doubles the base interval for every consecutive failure,
// capped at maxBackoff.
func refreshDelay(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	delay := base
	for range failures {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}

func refreshCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

// handleRefresh re-requests the active list and schedules the next tick.
// Lists that are not mounted, still loading or waiting for a first search
// are left alone.
func (m Model) handleRefresh() (tea.Model, tea.Cmd) {
	if m.refresh <= 0 {
		return m, nil
	}
	tab := m.activeTab()
	var cmds []tea.Cmd
	failures := 0
	if tab != nil && tab.mounted() {
		v := tab.view()
		failures = v.Failures
		if v.Phase == state.PhaseReady || v.Phase == state.PhaseError {
			cmds = append(cmds, tab.dispatch(criteria.Refresh{}))
		}
	}
	cmds = append(cmds, refreshCmd(refreshDelay(failures, m.refresh)))
	return m, tea.Batch(cmds...)
}
