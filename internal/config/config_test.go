package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.APIURL != defaultAPIURL || cfg.Debounce != 350*time.Millisecond || !cfg.Autoload {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if !strings.HasPrefix(cfg.LogFile, home) {
		t.Fatalf("LogFile = %q, want it under HOME %q", cfg.LogFile, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_url = "  https://dashboard.example.org  "
debounce_ms = 200
page_size = 40
page_sizes = [100, 20, 50, 20, -5]
autoload = false
refresh_seconds = 30
cache_size = 8
store = " SQLite "
store_path = "~/fauna/prefs.db"
log_file = "  ~/fauna.log  "
log_level = "DEBUG"
theme = " Slate "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		APIURL:    "https://dashboard.example.org",
		Debounce:  200 * time.Millisecond,
		PageSize:  50,
		PageSizes: []int{20, 50, 100},
		Autoload:  false,
		Refresh:   30 * time.Second,
		CacheSize: 8,
		Store:     "sqlite",
		StorePath: filepath.Join(home, "fauna", "prefs.db"),
		LogFile:   filepath.Join(home, "fauna.log"),
		LogLevel:  "debug",
		Theme:     "Slate",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	path := writeConfig(t, `
api_url = "   "
store = ""
log_level = ""
page_sizes = []
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ZeroDebounceAllowed(t *testing.T) {
	cfg, err := Load(writeConfig(t, "debounce_ms = 0\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Debounce != 0 {
		t.Fatalf("Debounce = %v, want 0", cfg.Debounce)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"bad toml":         "api_url = \n",
		"negative refresh": "refresh_seconds = -1\n",
		"huge debounce":    "debounce_ms = 60000\n",
		"unknown store":    "store = \"redis\"\n",
	}
	for name, body := range cases {
		if _, err := Load(writeConfig(t, body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestConfig_Limits(t *testing.T) {
	cfg := Default()
	cfg.PageSize = 50
	l := cfg.Limits()
	if l.DefaultPageSize != 50 || len(l.PageSizes) != 4 {
		t.Fatalf("Limits = %+v", l)
	}
	if got := l.Default().PageSize; got != 50 {
		t.Fatalf("default page size = %d, want 50", got)
	}
}

func TestExpandPath_TildeAndRelative(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "x", "y") {
		t.Fatalf("expandPath = %q, want %q", got, filepath.Join(home, "x", "y"))
	}

	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expected error for empty path")
	}
}
