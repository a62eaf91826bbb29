package dashboard

import (
	"testing"
	"time"
)

func TestParseResource(t *testing.T) {
	cases := map[string]Resource{
		"species":     ResourceSpecies,
		" Records ":   ResourceRecords,
		"trait":       ResourceTraits,
		"ECOSYSTEMS":  ResourceEcosystems,
		"biome":       ResourceBiomes,
		"ecosystem":   ResourceEcosystems,
		"records":     ResourceRecords,
		"speciesList": "",
	}
	for in, want := range cases {
		got, err := ParseResource(in)
		if want == "" {
			if err == nil {
				t.Fatalf("ParseResource(%q) = %q, want error", in, got)
			}
			continue
		}
		if err != nil || got != want {
			t.Fatalf("ParseResource(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
}

func TestResourceColumns(t *testing.T) {
	for _, r := range Resources {
		cols := r.Columns()
		if len(cols) == 0 {
			t.Fatalf("%s has no columns", r)
		}
		seen := map[string]bool{}
		for _, c := range cols {
			if seen[c.ID] {
				t.Fatalf("%s: duplicate column %q", r, c.ID)
			}
			seen[c.ID] = true
		}
		if !seen["id"] {
			t.Fatalf("%s: missing id column", r)
		}
	}
	if ResourceSpecies.Title() != "Species" || ResourceSpecies.Path() != "/api/species" {
		t.Fatalf("Title/Path = %q/%q", ResourceSpecies.Title(), ResourceSpecies.Path())
	}
}

func TestEntityCells(t *testing.T) {
	rec := Record{ID: 12, SpeciesName: "Lynx pardinus", Count: 3, Verified: true}
	if rec.Cell("id") != "12" || rec.Cell("count") != "3" || rec.Cell("verified") != "yes" {
		t.Fatalf("record cells = %q %q %q", rec.Cell("id"), rec.Cell("count"), rec.Cell("verified"))
	}
	if rec.Cell("unknown") != "" {
		t.Fatalf("unknown column should render empty")
	}

	b := Biome{AreaKm2: 1234.6}
	if b.Cell("areaKm2") != "1235" {
		t.Fatalf("area = %q, want 1235", b.Cell("areaKm2"))
	}
	if (Biome{}).Cell("areaKm2") != "" {
		t.Fatalf("zero area should render empty")
	}
}

func TestParseTimeLayouts(t *testing.T) {
	rfc := "2025-12-13T10:11:12Z"
	if parseTime(rfc).IsZero() {
		t.Fatalf("parseTime should parse RFC3339")
	}
	got := parseTime("2025-12-13 10:11:12")
	if got.IsZero() {
		t.Fatalf("parseTime should parse dashboard timestamp")
	}
	if got.Year() != 2025 || got.Month() != time.December || got.Day() != 13 {
		t.Fatalf("parseTime = %v, want 2025-12-13", got)
	}
	if parseTime("2025-12-13").IsZero() {
		t.Fatalf("parseTime should parse plain dates")
	}
	if !parseTime("yesterday").IsZero() {
		t.Fatalf("parseTime should return zero for junk")
	}

	s := Species{UpdatedAt: "2025-01-02 03:04:05"}
	if s.Cell("updatedAt") != "2025-01-02 03:04" {
		t.Fatalf("updatedAt cell = %q", s.Cell("updatedAt"))
	}
}
