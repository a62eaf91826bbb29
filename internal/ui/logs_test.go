package ui

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/five82/fauna/internal/logging"
)

func writeLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fauna.log")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create log: %v", err)
	}
	logger := slog.New(logging.NewHandler(f, logging.LevelTrace))
	logger.Log(context.Background(), logging.LevelTrace, "http request", "url", "/api/species")
	logger.Debug("fetching page", "key", "species|0|25")
	logger.Info("fauna starting")
	logger.Warn("corrupt stored criteria", "list", "species")
	logger.Error("list species", "error", "database unavailable")
	if err := f.Close(); err != nil {
		t.Fatalf("close log: %v", err)
	}
	return path
}

// press applies msg without running the commands it returns.
func press(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

// readLogs performs one read of the log file.
func readLogs(m Model) Model {
	return press(m, m.fetchLogs()())
}

func openLogPane(t *testing.T, path string) (*harness, Model) {
	t.Helper()
	h := newHarness(t, true)
	h.opts.LogFile = path
	m := h.start(t)
	m = press(m, runes("L"))
	if !m.showLogs {
		t.Fatalf("L did not open the log pane")
	}
	return h, readLogs(m)
}

func TestLogPane_ShowsAndFiltersLogFile(t *testing.T) {
	_, m := openLogPane(t, writeLog(t))

	if n := len(m.logState.rawLines); n != 5 {
		t.Fatalf("read %d lines, want 5", n)
	}
	view := m.View()
	for _, want := range []string{"fauna starting", "database unavailable", "follow on", "level≥TRACE"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}

	// A read started before the filter changed is dropped.
	stale := m.fetchLogs()
	m = press(m, runes("F"))
	m = press(m, runes("F"))
	m = press(m, stale())
	if n := len(m.logState.rawLines); n != 5 {
		t.Fatalf("stale read replaced the lines: %d", n)
	}

	m = readLogs(m)
	joined := strings.Join(m.logState.rawLines, "\n")
	if len(m.logState.rawLines) != 3 || strings.Contains(joined, "http request") || strings.Contains(joined, "fetching page") {
		t.Fatalf("INFO filter kept:\n%s", joined)
	}
	if !strings.Contains(m.View(), "Log (INFO and above)") {
		t.Fatalf("title does not show the filter")
	}
}

func TestLogPane_SearchStepsThroughMatches(t *testing.T) {
	_, m := openLogPane(t, writeLog(t))

	m = press(m, runes("/"))
	if !m.logState.searchActive {
		t.Fatalf("/ did not start a log search")
	}
	m = press(m, runes("species"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})

	if diff := cmp.Diff([]int{0, 1, 3, 4}, m.logState.searchMatches); diff != "" {
		t.Fatalf("matches mismatch (-want +got):\n%s", diff)
	}
	if m.logState.follow {
		t.Fatalf("jumping to a match kept following")
	}
	if !strings.Contains(m.View(), "1/4") {
		t.Fatalf("status does not count matches")
	}

	m = press(m, runes("n"))
	if m.logState.searchMatchIdx != 1 {
		t.Fatalf("n moved to match %d, want 1", m.logState.searchMatchIdx)
	}
	m = press(m, runes("N"))
	m = press(m, runes("N"))
	if m.logState.searchMatchIdx != 3 {
		t.Fatalf("N did not wrap, at match %d", m.logState.searchMatchIdx)
	}

	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.logState.searchRegex != nil || !m.showLogs {
		t.Fatalf("esc should clear the search and keep the pane open")
	}
	m = press(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showLogs {
		t.Fatalf("esc without a search should close the pane")
	}
}

func TestLogPane_InvalidPatternKeepsInputOpen(t *testing.T) {
	_, m := openLogPane(t, writeLog(t))

	m = press(m, runes("/"))
	m = press(m, runes("(lynx"))
	m = press(m, tea.KeyMsg{Type: tea.KeyEnter})
	if !m.logState.searchActive || m.logState.searchRegex != nil {
		t.Fatalf("invalid pattern applied")
	}
}

func TestLogPane_ListKeysWaitUntilClosed(t *testing.T) {
	h, m := openLogPane(t, writeLog(t))
	before := len(h.species.Calls())

	m = press(m, runes("n"))
	if len(h.species.Calls()) != before {
		t.Fatalf("n paged the list behind the log pane")
	}

	m = press(m, runes("L"))
	if m.showLogs {
		t.Fatalf("L did not close the log pane")
	}
	m = update(t, m, runes("n"))
	if calls := h.species.Calls(); len(calls) != before+1 || calls[len(calls)-1].Page != 1 {
		t.Fatalf("calls = %+v, want a fetch of page 1", calls)
	}
}

func TestLogPane_TickStopsWhileHidden(t *testing.T) {
	_, m := openLogPane(t, writeLog(t))
	if !m.logState.ticking {
		t.Fatalf("opening the pane did not start the refresh tick")
	}

	m = press(m, runes("L"))
	next, cmd := m.Update(logTickMsg(time.Now()))
	m = next.(Model)
	if cmd != nil || m.logState.ticking {
		t.Fatalf("tick kept running with the pane hidden")
	}

	m = press(m, runes("L"))
	if !m.logState.ticking {
		t.Fatalf("reopening the pane did not restart the tick")
	}
}

func TestLogPane_MissingFile(t *testing.T) {
	_, m := openLogPane(t, filepath.Join(t.TempDir(), "none.log"))
	if len(m.logState.rawLines) != 0 || m.logState.err != nil {
		t.Fatalf("lines = %q err = %v", m.logState.rawLines, m.logState.err)
	}
	if !strings.Contains(m.View(), "No log entries") {
		t.Fatalf("empty log not reported")
	}
}
