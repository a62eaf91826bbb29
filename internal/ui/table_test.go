package ui

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/state"
)

func TestFormatCell(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		width   int
		density layout.Density
		want    string
	}{
		{"compact pads", "Lynx", 8, layout.Compact, "Lynx    "},
		{"normal indents", "Lynx", 8, layout.Normal, " Lynx   "},
		{"compact truncates", "Lynx pardinus", 8, layout.Compact, "Lynx p… "},
		{"normal truncates", "Lynx pardinus", 8, layout.Normal, " Lynx … "},
		{"too narrow", "Lynx", 1, layout.Normal, " "},
		{"multibyte", "Lince ibérico", 8, layout.Compact, "Lince … "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatCell(tt.text, tt.width, tt.density); got != tt.want {
				t.Fatalf("formatCell(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
			}
		})
	}
}

func TestSortIndicator(t *testing.T) {
	asc := criteria.Sort{Field: "name", Direction: criteria.Asc}
	desc := criteria.Sort{Field: "name", Direction: criteria.Desc}
	if got := sortIndicator(asc, "name"); got != " ▲" {
		t.Fatalf("asc indicator = %q", got)
	}
	if got := sortIndicator(desc, "name"); got != " ▼" {
		t.Fatalf("desc indicator = %q", got)
	}
	if got := sortIndicator(asc, "id"); got != "" {
		t.Fatalf("indicator on unsorted column = %q", got)
	}
}

func frameIDs(ps []layout.Placed) []string {
	ids := make([]string, 0, len(ps))
	for _, p := range ps {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestFrameFor_PinsStickToEdges(t *testing.T) {
	columns := dashboard.ResourceSpecies.Columns()
	l := layout.Defaults(columns)
	l.Pinning.Left = []string{"commonName"}
	l.Pinning.Right = []string{"id"}

	// 2 selection + 20 commonName + 6 id leaves 32 cells for the middle.
	f := frameFor(columns, l, 60, 0)
	if diff := cmp.Diff([]string{"commonName"}, frameIDs(f.left)); diff != "" {
		t.Fatalf("left (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"scientificName"}, frameIDs(f.middle)); diff != "" {
		t.Fatalf("middle (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"id"}, frameIDs(f.right)); diff != "" {
		t.Fatalf("right (-want +got):\n%s", diff)
	}
	if f.filler != 60-2-20-26-6 {
		t.Fatalf("filler = %d, want %d", f.filler, 60-2-20-26-6)
	}

	// Scrolling moves the middle and keeps both pins.
	f = frameFor(columns, l, 60, 2)
	if diff := cmp.Diff([]string{"conservationStatus", "biomeName"}, frameIDs(f.middle)); diff != "" {
		t.Fatalf("scrolled middle (-want +got):\n%s", diff)
	}
	if len(f.left) != 1 || len(f.right) != 1 {
		t.Fatalf("pins lost on scroll: %+v", f)
	}
}

func TestEmptyMessage(t *testing.T) {
	tests := []struct {
		name string
		view tabView
		want string
	}{
		{"idle", tabView{Phase: state.PhaseIdle}, "Press Enter to search"},
		{"loading", tabView{Phase: state.PhaseLoading}, "Loading…"},
		{"error", tabView{Phase: state.PhaseError, Err: errors.New("list species: boom")}, "list species: boom"},
		{"no rows", tabView{Phase: state.PhaseReady}, "No rows"},
		{"no matches", tabView{Phase: state.PhaseReady, Criteria: criteria.Criteria{Query: "xyz"}}, "No matches for “xyz”"},
		{"rows", tabView{Phase: state.PhaseReady, Rows: []dashboard.Row{dashboard.Species{ID: 1}}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := emptyMessage(tt.view); got != tt.want {
				t.Fatalf("emptyMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTruncateMiddle(t *testing.T) {
	if got := truncateMiddle("species?page=2&q=lince", 11); got != "speci…lince" {
		t.Fatalf("truncateMiddle = %q", got)
	}
	if got := truncateMiddle("species", 20); got != "species" {
		t.Fatalf("truncateMiddle short = %q", got)
	}
}

func TestClassifyFetchError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ERROR"},
		{fmt.Errorf("list species: %w", &dashboard.APIError{Status: 404}), "NOT FOUND"},
		{fmt.Errorf("list species: %w", &dashboard.APIError{Status: 503}), "SERVER ERROR"},
		{&dashboard.APIError{Status: 400, Message: "bad sort"}, "BAD REQUEST"},
		{errors.New("execute request: dial tcp: connection refused"), "OFFLINE"},
		{errors.New("context deadline exceeded"), "TIMEOUT"},
		{errors.New("boom"), "ERROR"},
	}
	for _, tt := range tests {
		if got := classifyFetchError(tt.err); got != tt.want {
			t.Errorf("classifyFetchError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
