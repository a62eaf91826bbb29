package app

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/five82/fauna/internal/criteria"
	"github.com/five82/fauna/internal/dashboard"
	"github.com/five82/fauna/internal/layout"
	"github.com/five82/fauna/internal/listing"
	"github.com/five82/fauna/internal/testutil"
)

func openApp(t *testing.T, d *testutil.Dashboard, extra string, opts Options) *App {
	t.Helper()
	opts.ConfigPath = testutil.WriteConfig(t, d.URL, extra)
	a, err := Open(context.Background(), opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func TestResolve(t *testing.T) {
	limits := criteria.DefaultLimits
	tests := []struct {
		name     string
		resource string
		location string
		want     dashboard.Resource
		wantCrit *criteria.Criteria
		wantErr  bool
	}{
		{name: "defaults", want: DefaultResource},
		{name: "resource only", resource: "biomes", want: dashboard.ResourceBiomes},
		{name: "singular resource", resource: "Ecosystem", want: dashboard.ResourceEcosystems},
		{
			name:     "location",
			location: "species?q=lynx&page=2&pageSize=10",
			want:     dashboard.ResourceSpecies,
			wantCrit: &criteria.Criteria{Query: "lynx", Page: 2, PageSize: 10},
		},
		{
			name:     "location wins over resource",
			resource: "biomes",
			location: "/api/traits?q=wing",
			want:     dashboard.ResourceTraits,
			wantCrit: &criteria.Criteria{Query: "wing", PageSize: 25},
		},
		{
			name:     "query-only location uses resource",
			resource: "records",
			location: "?q=owl",
			want:     dashboard.ResourceRecords,
			wantCrit: &criteria.Criteria{Query: "owl", PageSize: 25},
		},
		{name: "unknown resource", resource: "plants", wantErr: true},
		{name: "unknown location", location: "plants?q=fern", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, crit, err := Resolve(tt.resource, tt.location, limits)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Fatalf("resource = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantCrit, crit); diff != "" {
				t.Fatalf("criteria mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestOpen_AppliesNoAutoload(t *testing.T) {
	d := testutil.NewDashboard(t, 3)
	a := openApp(t, d, "", Options{NoAutoload: true})
	if a.Config.Autoload {
		t.Fatalf("Autoload = true, want false")
	}
	if a.Client.BaseURL() != d.URL {
		t.Fatalf("BaseURL = %q, want %q", a.Client.BaseURL(), d.URL)
	}
}

func TestOpen_InvalidConfig(t *testing.T) {
	d := testutil.NewDashboard(t, 3)
	path := testutil.WriteConfig(t, d.URL, "refresh_seconds = -1\n")
	_, err := Open(context.Background(), Options{ConfigPath: path})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("Open error = %v, want load config failure", err)
	}
}

func TestTab_EveryResource(t *testing.T) {
	d := testutil.NewDashboard(t, 3)
	a := openApp(t, d, "", Options{})
	for _, res := range dashboard.Resources {
		tab, err := a.Tab(res)
		if err != nil {
			t.Fatalf("Tab(%s): %v", res, err)
		}
		if tab.ID() != string(res) || tab.Title() != res.Title() {
			t.Fatalf("Tab(%s) = %q/%q", res, tab.ID(), tab.Title())
		}
	}
	if _, err := a.Tab("plants"); err == nil {
		t.Fatalf("Tab(plants) succeeded")
	}
}

func TestFetchPage_ServesRequestedPage(t *testing.T) {
	d := testutil.NewDashboard(t, 30)
	a := openApp(t, d, "", Options{})

	page, err := a.FetchPage(context.Background(), dashboard.ResourceSpecies, criteria.Criteria{Query: "lynx", PageSize: 10})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(page.Rows) != 10 || page.Total != 10 || page.Pages != 1 {
		t.Fatalf("page = %d rows, total %d, pages %d", len(page.Rows), page.Total, page.Pages)
	}
	if got := page.Rows[0].Cell("commonName"); got != "Iberian lynx 03" {
		t.Fatalf("first row = %q", got)
	}
	if page.Location != "species?pageSize=10&q=lynx" {
		t.Fatalf("Location = %q", page.Location)
	}

	reqs := d.Requests()
	if len(reqs) != 1 || reqs[0].Get("q") != "lynx" || reqs[0].Get("pageSize") != "10" {
		t.Fatalf("requests = %v", reqs)
	}
}

func TestFetchPage_ClampsCriteria(t *testing.T) {
	d := testutil.NewDashboard(t, 30)
	a := openApp(t, d, "", Options{})

	page, err := a.FetchPage(context.Background(), dashboard.ResourceSpecies, criteria.Criteria{Page: -3, PageSize: 7})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if page.Page != 0 || page.PageSize != 10 {
		t.Fatalf("page %d size %d, want 0 and 10", page.Page, page.PageSize)
	}
	if page.Pages != 3 {
		t.Fatalf("Pages = %d, want 3", page.Pages)
	}
}

func TestFetchPage_DoesNotPersistCriteria(t *testing.T) {
	d := testutil.NewDashboard(t, 30)
	a := openApp(t, d, "", Options{})

	if _, err := a.FetchPage(context.Background(), dashboard.ResourceSpecies, criteria.Criteria{Query: "lynx"}); err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if v, ok := a.Store.Get(listing.Key(string(dashboard.ResourceSpecies))); ok {
		t.Fatalf("criteria persisted: %q", v)
	}
}

func TestFetchPage_HonorsStoredLayout(t *testing.T) {
	d := testutil.NewDashboard(t, 5)
	a := openApp(t, d, "", Options{})

	table := layout.Mount(string(dashboard.ResourceSpecies), dashboard.ResourceSpecies.Columns(), a.Store, nil)
	table.SetVisible("family", false)
	table.Pin("commonName", layout.Left)

	page, err := a.FetchPage(context.Background(), dashboard.ResourceSpecies, criteria.Criteria{})
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	l := page.Table.Layout()
	if l.Visible("family") {
		t.Fatalf("family visible, want hidden")
	}
	if l.PinnedSide("commonName") != layout.Left {
		t.Fatalf("commonName not pinned left")
	}
}

func TestFetchPage_ReturnsAPIError(t *testing.T) {
	d := testutil.NewDashboard(t, 5)
	d.Fail(http.StatusServiceUnavailable, "database unavailable")
	a := openApp(t, d, "", Options{})

	_, err := a.FetchPage(context.Background(), dashboard.ResourceSpecies, criteria.Criteria{})
	var apiErr *dashboard.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("err = %v, want APIError 503", err)
	}
	if err.Error() != "list species: database unavailable" {
		t.Fatalf("err = %q", err.Error())
	}
}

func TestSearchDelay(t *testing.T) {
	if got := searchDelay(0); got != time.Millisecond {
		t.Fatalf("searchDelay(0) = %v", got)
	}
	if got := searchDelay(200 * time.Millisecond); got != 200*time.Millisecond {
		t.Fatalf("searchDelay(200ms) = %v", got)
	}
}
