// Package ui is the Bubble Tea console for browsing dashboard lists.
//
// # Layout
//
// The screen stacks five regions:
//
//   - header: logo, one tab per list (1-5) and the API address
//   - search bar: the shared search box, live while editing
//   - table: the active list rendered through its column layout
//   - status line: phase badge, page n/m, total, location
//   - command bar: key hints and the focused column
//
// # Data flow
//
// Each Tab wraps a listing.Controller and a layout.Table. Keys that change
// what is fetched (search, paging, page size, sort, refresh, back) become
// criteria events dispatched to the active controller, which returns at most
// one fetch command. Fetch results come back as listing.ResultMsg values and
// are routed to the tab that issued them; the controller drops any that no
// longer match its criteria.
//
// Column keys (visibility, pinning, width, density) only touch the
// layout.Table, which writes through to the preference store. They never
// reach a controller, so they never fetch.
//
// # Search
//
// One search.Input is shared by every tab. Typing restarts its debounce tick;
// when the tick settles the text, a SearchSettled event goes to the active
// list. Enter submits immediately and always refetches. Switching tabs or
// going back resets the box to the query of the list now in effect.
//
// # Auto refresh
//
// With a refresh interval set, the active list is re-requested on a tick.
// Consecutive failures back the interval off exponentially up to five
// minutes.
//
// # Log pane
//
// L replaces the list with the tail of fauna's own log file, re-read on a
// tick while shown. Each read is numbered and only the newest is applied,
// so a read started before the level filter changed is dropped.
package ui
