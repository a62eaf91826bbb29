package search

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type arrival struct {
	msg tea.Msg
	at  time.Time
}

// runTicks executes tick commands concurrently, like the Bubble Tea runtime
// would, and returns their messages in arrival order.
func runTicks(cmds []tea.Cmd) []arrival {
	ch := make(chan arrival, len(cmds))
	for _, cmd := range cmds {
		go func(c tea.Cmd) {
			msg := c()
			ch <- arrival{msg: msg, at: time.Now()}
		}(cmd)
	}
	out := make([]arrival, 0, len(cmds))
	for range cmds {
		out = append(out, <-ch)
	}
	return out
}

func TestInput_BurstSettlesOnceToLastValue(t *testing.T) {
	const delay = 40 * time.Millisecond
	in := New(delay)

	var cmds []tea.Cmd
	var last time.Time
	for i, text := range []string{"l", "li", "lin", "  lince  "} {
		if i > 0 {
			time.Sleep(5 * time.Millisecond)
		}
		last = time.Now()
		cmds = append(cmds, in.SetRaw(text))
	}

	var settled []SettledMsg
	var settledAt time.Time
	for _, a := range runTicks(cmds) {
		if msg, ok := in.Update(a.msg); ok {
			settled = append(settled, msg)
			settledAt = a.at
		}
	}

	if len(settled) != 1 {
		t.Fatalf("settled %d times, want exactly once: %+v", len(settled), settled)
	}
	if settled[0].Query != "lince" || in.Settled() != "lince" {
		t.Fatalf("settled = %q (input %q), want lince", settled[0].Query, in.Settled())
	}
	if in.Raw() != "  lince  " {
		t.Fatalf("raw = %q, want untrimmed text", in.Raw())
	}
	if settledAt.Sub(last) < delay {
		t.Fatalf("settled %v after last keystroke, want >= %v", settledAt.Sub(last), delay)
	}
}

func TestInput_CommitSettlesImmediatelyAndCancelsTick(t *testing.T) {
	in := New(10 * time.Millisecond)

	cmd := in.SetRaw(" ardilla ")
	if got := in.Commit(); got != "ardilla" {
		t.Fatalf("Commit = %q, want ardilla", got)
	}
	if in.Settled() != "ardilla" {
		t.Fatalf("Settled = %q, want ardilla", in.Settled())
	}

	if _, ok := in.Update(cmd()); ok {
		t.Fatalf("tick scheduled before commit should not settle again")
	}
}

func TestInput_CommitValueOverridesRaw(t *testing.T) {
	in := New(10 * time.Millisecond)
	in.SetRaw("abc")

	if got := in.CommitValue("  xyz "); got != "xyz" {
		t.Fatalf("CommitValue = %q, want xyz", got)
	}
	if in.Raw() != "  xyz " {
		t.Fatalf("Raw = %q, want committed value", in.Raw())
	}
}

func TestInput_UnchangedTrimmedTextDoesNotSettle(t *testing.T) {
	in := New(5 * time.Millisecond)
	in.Reset("oso")

	cmd := in.SetRaw("oso   ")
	if _, ok := in.Update(cmd()); ok {
		t.Fatalf("whitespace-only change should not produce a settled message")
	}
}

func TestInput_IgnoresOtherInputsTicks(t *testing.T) {
	a := New(5 * time.Millisecond)
	b := New(5 * time.Millisecond)

	cmd := a.SetRaw("zorro")
	b.SetRaw("zorro")

	if _, ok := b.Update(cmd()); ok {
		t.Fatalf("input b settled from input a's tick")
	}
	if b.Settled() != "" {
		t.Fatalf("b.Settled = %q, want empty", b.Settled())
	}
}

func TestInput_ResetInvalidatesPendingTick(t *testing.T) {
	in := New(5 * time.Millisecond)

	cmd := in.SetRaw("typed")
	in.Reset("from location")

	if _, ok := in.Update(cmd()); ok {
		t.Fatalf("pending tick should be invalidated by Reset")
	}
	if in.Raw() != "from location" || in.Settled() != "from location" {
		t.Fatalf("Reset left raw=%q settled=%q", in.Raw(), in.Settled())
	}
	if in.Pending() {
		t.Fatalf("Pending = true after Reset")
	}
}

func TestNew_DefaultDelay(t *testing.T) {
	if got := New(0).Delay(); got != DefaultDelay {
		t.Fatalf("Delay = %v, want %v", got, DefaultDelay)
	}
}
