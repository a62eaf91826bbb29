// Package testutil provides a fake dashboard and config files for tests.
package testutil

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/paging"
)

// Species returns n numbered species. Every third one is a lynx.
func Species(n int) []dashboard.Species {
	out := make([]dashboard.Species, 0, n)
	for i := 1; i <= n; i++ {
		s := dashboard.Species{
			ID:                 int64(i),
			ScientificName:     fmt.Sprintf("Testudo hermanni %02d", i),
			CommonName:         fmt.Sprintf("Hermann's tortoise %02d", i),
			Family:             "Testudinidae",
			ConservationStatus: "NT",
			BiomeName:          "Mediterranean",
		}
		if i%3 == 0 {
			s.ScientificName = fmt.Sprintf("Lynx pardinus %02d", i)
			s.CommonName = fmt.Sprintf("Iberian lynx %02d", i)
			s.Family = "Felidae"
			s.ConservationStatus = "EN"
		}
		out = append(out, s)
	}
	return out
}

// Dashboard is an httptest server speaking the dashboard list API. It serves
// species from memory and empty pages for every other resource.
type Dashboard struct {
	*httptest.Server

	mu       sync.Mutex
	species  []dashboard.Species
	requests []url.Values
	status   int
	message  string
}

// NewDashboard starts a Dashboard with n species. It is closed when the test
// ends.
func NewDashboard(t *testing.T, n int) *Dashboard {
	t.Helper()
	d := &Dashboard{species: Species(n)}
	d.Server = httptest.NewServer(http.HandlerFunc(d.serve))
	t.Cleanup(d.Close)
	return d
}

// Fail makes every following request answer status with message.
func (d *Dashboard) Fail(status int, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.status = status
	d.message = message
}

// Requests returns the query of every species request served so far.
func (d *Dashboard) Requests() []url.Values {
	d.mu.Lock()
	defer d.mu.Unlock()
	return slices.Clone(d.requests)
}

func (d *Dashboard) serve(w http.ResponseWriter, r *http.Request) {
	d.mu.Lock()
	defer d.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if d.status != 0 {
		w.WriteHeader(d.status)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": d.message})
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("pageSize"))
	if size <= 0 {
		size = 25
	}
	if r.URL.Path != dashboard.ResourceSpecies.Path() {
		_ = json.NewEncoder(w).Encode(paging.Result[json.RawMessage]{Items: []json.RawMessage{}, Page: page, PageSize: size})
		return
	}
	d.requests = append(d.requests, q)

	needle := strings.ToLower(q.Get("q"))
	var matched []dashboard.Species
	for _, s := range d.species {
		if needle == "" || strings.Contains(strings.ToLower(s.ScientificName+" "+s.CommonName), needle) {
			matched = append(matched, s)
		}
	}
	if field := q.Get("sortBy"); field != "" {
		slices.SortStableFunc(matched, func(a, b dashboard.Species) int {
			c := strings.Compare(a.Cell(field), b.Cell(field))
			if field == "id" {
				c = cmp.Compare(a.ID, b.ID)
			}
			if q.Get("sortOrder") == "desc" {
				return -c
			}
			return c
		})
	}

	start := min(page*size, len(matched))
	end := min(start+size, len(matched))
	_ = json.NewEncoder(w).Encode(paging.Result[dashboard.Species]{
		Items:    append([]dashboard.Species{}, matched[start:end]...),
		Page:     page,
		PageSize: size,
		Total:    len(matched),
	})
}

// WriteConfig writes a config pointing at apiURL with the log file and a
// TOML preference store under a temp dir, plus any extra lines. HOME is moved
// to the same dir. It returns the config path.
func WriteConfig(t *testing.T, apiURL, extra string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	body := fmt.Sprintf("api_url = %q\nstore = \"file\"\nstore_path = %q\nlog_file = %q\n%s",
		apiURL,
		filepath.Join(dir, "prefs.toml"),
		filepath.Join(dir, "fauna.log"),
		extra,
	)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
