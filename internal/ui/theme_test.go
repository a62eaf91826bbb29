package ui

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/fauna/internal/state"
)

func TestThemeNames(t *testing.T) {
	want := []string{"Nightfox", "Kanagawa", "Slate"}
	if diff := cmp.Diff(want, ThemeNames()); diff != "" {
		t.Fatalf("ThemeNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestNextTheme(t *testing.T) {
	tests := map[string]string{
		"Nightfox": "Kanagawa",
		"Kanagawa": "Slate",
		"Slate":    "Nightfox",
		"Unknown":  "Nightfox",
	}
	for in, want := range tests {
		if got := NextTheme(in); got != want {
			t.Fatalf("NextTheme(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetTheme_FallsBack(t *testing.T) {
	if got := GetTheme("nope").Name; got != "Nightfox" {
		t.Fatalf("GetTheme(nope) = %q, want Nightfox", got)
	}
}

func TestThemesCoverEveryPhase(t *testing.T) {
	phases := []state.Phase{state.PhaseIdle, state.PhaseLoading, state.PhaseRefreshing, state.PhaseReady, state.PhaseError}
	for _, name := range ThemeNames() {
		th := GetTheme(name)
		for _, p := range phases {
			if th.PhaseColors[p.String()] == "" {
				t.Fatalf("theme %s has no color for phase %s", name, p)
			}
		}
	}
}
