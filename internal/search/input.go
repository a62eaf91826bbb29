// Package search owns the text of a search box and its debounced, settled
// value.
//
// Raw text changes on every keystroke. The settled value only follows once
// typing has paused for the debounce delay, or immediately on an explicit
// commit (Enter, blur). Timers are Bubble Tea ticks tagged with a version;
// every SetRaw bumps the version so only the tick scheduled by the last
// keystroke can settle the input.
package search

import (
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// DefaultDelay is the quiet period after the last keystroke before the
// search text settles.
const DefaultDelay = 350 * time.Millisecond

var lastID atomic.Int64

func nextID() int {
	return int(lastID.Add(1))
}

// SettleMsg is delivered when a debounce tick fires.
type SettleMsg struct {
	id      int
	version int
}

// SettledMsg is returned by Update when the settled value changed.
type SettledMsg struct {
	InputID int
	Query   string
}

// Input is the state of one search box. The zero value is not usable; call
// New.
type Input struct {
	id      int
	delay   time.Duration
	raw     string
	settled string
	version int
}

// New builds an Input. A non-positive delay uses DefaultDelay.
func New(delay time.Duration) *Input {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Input{id: nextID(), delay: delay}
}

// ID identifies the input in routed messages.
func (in *Input) ID() int { return in.id }

// Raw returns the text as typed.
func (in *Input) Raw() string { return in.raw }

// Settled returns the last settled (trimmed) text.
func (in *Input) Settled() string { return in.settled }

// Delay returns the debounce delay.
func (in *Input) Delay() time.Duration { return in.delay }

// Pending reports whether a debounce tick is outstanding for a value that
// differs from the settled one.
func (in *Input) Pending() bool {
	return strings.TrimSpace(in.raw) != in.settled
}

// SetRaw records text and restarts the debounce timer. The returned command
// must be handed to the Bubble Tea runtime.
func (in *Input) SetRaw(text string) tea.Cmd {
	in.raw = text
	in.version++
	id, version := in.id, in.version
	return tea.Tick(in.delay, func(time.Time) tea.Msg {
		return SettleMsg{id: id, version: version}
	})
}

// Commit settles the current raw text immediately and returns it. Any
// pending tick is invalidated.
func (in *Input) Commit() string {
	return in.CommitValue(in.raw)
}

// CommitValue settles value immediately, replacing the raw text, and returns
// the settled result.
func (in *Input) CommitValue(value string) string {
	in.raw = value
	in.version++
	in.settled = strings.TrimSpace(value)
	return in.settled
}

// Reset forces both raw and settled text, used when the criteria in effect
// change from outside the box so the two always agree.
func (in *Input) Reset(text string) {
	in.version++
	in.raw = text
	in.settled = strings.TrimSpace(text)
}

// Update handles SettleMsg ticks. It returns a SettledMsg and true when the
// settled value changed; ticks for other inputs or superseded keystrokes are
// ignored.
func (in *Input) Update(msg tea.Msg) (SettledMsg, bool) {
	tick, ok := msg.(SettleMsg)
	if !ok || tick.id != in.id || tick.version != in.version {
		return SettledMsg{}, false
	}
	value := strings.TrimSpace(in.raw)
	if value == in.settled {
		return SettledMsg{}, false
	}
	in.settled = value
	return SettledMsg{InputID: in.id, Query: value}, true
}
