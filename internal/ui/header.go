package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/state"
)

// renderHeader renders the logo, the list tabs and the API address.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	parts := []string{bg.Render("fauna", styles.Logo)}
	for i, tab := range m.tabs {
		label := fmt.Sprintf("%d %s", i+1, tab.Title())
		if i == m.active {
			parts = append(parts, bg.Render("["+label+"]", styles.AccentText.Bold(true)))
			continue
		}
		parts = append(parts, bg.Render(label, styles.MutedText))
	}
	if m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 32), styles.FaintText))
	}
	return styles.Header.Width(m.width).Render(bg.Join(parts, "  "))
}

// renderSearchBar renders the search box, live while editing.
func (m Model) renderSearchBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	prompt := bg.Render("/", styles.AccentText.Bold(true)) + bg.Space()
	var body string
	switch {
	case m.searching:
		body = m.searchBox.View()
	case m.search.Raw() != "":
		body = bg.Render(m.search.Raw(), styles.Text)
		if m.search.Pending() {
			body += bg.Space() + bg.Render("…", styles.FaintText)
		}
	default:
		body = bg.Render("type / to search", styles.FaintText)
	}
	return styles.Header.Width(m.width).Render(prompt + body)
}

// renderStatusLine renders location, paging and the phase of the active
// list. Errors show the message with a retry hint.
func (m Model) renderStatusLine(v tabView) string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := "  "

	phase := v.Phase
	parts := []string{styles.PhaseStyle(phase).Render(strings.ToUpper(phase.String()))}

	switch phase {
	case state.PhaseIdle:
		parts = append(parts, bg.Render("Press Enter to search", styles.WarningText.Bold(true)))
	case state.PhaseError:
		msg := "request failed"
		if v.Err != nil {
			msg = truncate(v.Err.Error(), 60)
		}
		parts = append(parts,
			bg.Render(classifyFetchError(v.Err), styles.DangerText)+bg.Space()+bg.Render(msg, styles.DangerText),
			bg.Render("r", styles.AccentText)+bg.Sep(":")+bg.Render("Retry", styles.MutedText),
		)
	}

	if v.Pages > 0 || v.Total > 0 {
		page := fmt.Sprintf("page %d/%d", v.Page+1, max(v.Pages, 1))
		parts = append(parts,
			bg.Render(page, styles.Text),
			bg.Render(fmt.Sprintf("%d total", v.Total), styles.MutedText),
		)
	}
	parts = append(parts, bg.Render(fmt.Sprintf("%d/page", v.Criteria.PageSize), styles.MutedText))
	if v.Stale {
		parts = append(parts, bg.Render("stale", styles.WarningText))
	}
	if v.Updated != "" {
		parts = append(parts, bg.Render(v.Updated, styles.FaintText))
	}
	parts = append(parts, bg.Render(truncateMiddle(v.Location, 48), styles.InfoText))

	return styles.Header.Width(m.width).Render(bg.Join(parts, sep))
}

// renderCommandBar renders the key hints for the current mode.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)

	bindings := m.keys.ShortHelp()
	if m.searching {
		bindings = []key.Binding{m.keys.Submit, m.keys.Escape}
	}

	colon := bg.Sep(":")
	segments := make([]string, 0, len(bindings)+2)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments, bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}
	if col, ok := m.focusedColumn(); ok {
		segments = append(segments, bg.Render("col", styles.FaintText)+colon+bg.Render(m.columnLabel(col), styles.Text))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).Render(strings.Join(segments, bg.Spaces(2)))
}

// classifyFetchError returns a short tag for a fetch failure.
func classifyFetchError(err error) string {
	if err == nil {
		return "ERROR"
	}
	var apiErr *dashboard.APIError
	if errors.As(err, &apiErr) {
		switch {
		case dashboard.IsNotFound(err):
			return "NOT FOUND"
		case apiErr.Status >= 500:
			return "SERVER ERROR"
		default:
			return "BAD REQUEST"
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "connection refused"):
		return "OFFLINE"
	case strings.Contains(msg, "no such host"):
		return "HOST NOT FOUND"
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline exceeded"):
		return "TIMEOUT"
	default:
		return "ERROR"
	}
}
